package imports

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zaidnet/tagihan/internal/http/httperr"
)

type errBadRequest string

func (e errBadRequest) Error() string { return string(e) }

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest("invalid request body: " + err.Error())
	}

	return nil
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	var br errBadRequest
	if errors.As(err, &br) {
		httperr.BadRequest(w, string(br))
		return
	}

	httperr.Write(w, r, err)
}
