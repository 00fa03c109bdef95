package bill

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/http/httperr"
	"github.com/zaidnet/tagihan/internal/notify"
)

type Handler struct {
	svc      *bill.Service
	composer *notify.Composer
}

func NewHandler(svc *bill.Service, composer *notify.Composer) *Handler {
	return &Handler{svc: svc, composer: composer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/delete", h.deleteMany)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Post("/{id}/paid", h.markPaid)
	r.Post("/{id}/pending", h.markPending)
	r.Get("/{id}/reminder", h.reminder)
}

// SelectionRoutes exposes the working selection used for bulk actions.
func (h *Handler) SelectionRoutes(r chi.Router) {
	r.Get("/", h.selection)
	r.Post("/all", h.selectAll)
	r.Delete("/", h.clearSelection)
	r.Delete("/bills", h.deleteSelected)
	r.Put("/{id}", h.selectOne)
	r.Delete("/{id}", h.deselectOne)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	httperr.JSON(w, http.StatusOK, toStatsResponse(h.svc.Stats()))
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	var br badRequest
	if errors.As(err, &br) {
		httperr.BadRequest(w, br.msg)
		return
	}

	httperr.Write(w, r, err)
}

func billID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, badRequest{msg: "invalid id"}
	}

	return id, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if err := decode(r.Body, &req); err != nil {
		fail(w, r, err)
		return
	}

	c, err := req.candidate()
	if err != nil {
		fail(w, r, err)
		return
	}

	b, err := h.svc.Add(r.Context(), c)
	if err != nil {
		fail(w, r, err)
		return
	}

	httperr.JSON(w, http.StatusCreated, ToResponse(b, false))
}

func listFilter(r *http.Request) (bill.ListFilter, error) {
	filter := bill.ListFilter{Search: r.URL.Query().Get("q")}

	if s := r.URL.Query().Get("status"); s != "" {
		status, err := bill.ParseStatus(s)
		if err != nil {
			return bill.ListFilter{}, err
		}

		filter.Status = &status
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	httperr.JSON(w, http.StatusOK, ToResponseList(h.svc.List(filter), h.svc.Selected()))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := billID(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	b, err := h.svc.Get(id)
	if err != nil {
		fail(w, r, err)
		return
	}

	httperr.JSON(w, http.StatusOK, ToResponse(b, h.svc.IsSelected(id)))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := billID(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	var req updateBillRequest
	if err := decode(r.Body, &req); err != nil {
		fail(w, r, err)
		return
	}

	p, err := req.patch()
	if err != nil {
		fail(w, r, err)
		return
	}

	b, err := h.svc.Update(r.Context(), id, p)
	if err != nil {
		fail(w, r, err)
		return
	}

	httperr.JSON(w, http.StatusOK, ToResponse(b, h.svc.IsSelected(id)))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := billID(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.svc.Remove(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type idsRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type removedResponse struct {
	Removed int `json:"removed"`
}

func (h *Handler) deleteMany(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := decode(r.Body, &req); err != nil {
		fail(w, r, err)
		return
	}

	n, err := h.svc.RemoveMany(r.Context(), req.IDs)
	if err != nil {
		fail(w, r, err)
		return
	}

	httperr.JSON(w, http.StatusOK, removedResponse{Removed: n})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := billID(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := decode(r.Body, &req); err != nil {
		fail(w, r, err)
		return
	}

	h.setStatus(w, r, id, bill.Status(req.Status))
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, err := billID(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.setStatus(w, r, id, bill.StatusPaid)
}

func (h *Handler) markPending(w http.ResponseWriter, r *http.Request) {
	id, err := billID(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.setStatus(w, r, id, bill.StatusPending)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, id uuid.UUID, status bill.Status) {
	b, err := h.svc.SetStatus(r.Context(), id, status)
	if err != nil {
		fail(w, r, err)
		return
	}

	httperr.JSON(w, http.StatusOK, ToResponse(b, h.svc.IsSelected(id)))
}

func (h *Handler) reminder(w http.ResponseWriter, r *http.Request) {
	id, err := billID(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	b, err := h.svc.Get(id)
	if err != nil {
		fail(w, r, err)
		return
	}

	rem, err := h.composer.Compose(*b)
	if err != nil {
		fail(w, r, err)
		return
	}

	httperr.JSON(w, http.StatusOK, rem)
}

type selectionResponse struct {
	IDs   []uuid.UUID `json:"ids"`
	Count int         `json:"count"`
}

func (h *Handler) selection(w http.ResponseWriter, r *http.Request) {
	ids := h.svc.Selected()
	if ids == nil {
		ids = []uuid.UUID{}
	}

	httperr.JSON(w, http.StatusOK, selectionResponse{IDs: ids, Count: len(ids)})
}

// selectAllRequest selects the listed ids, or the filtered view when ids is
// absent.
type selectAllRequest struct {
	IDs    []uuid.UUID `json:"ids"`
	Query  string      `json:"q"`
	Status string      `json:"status"`
}

type selectedResponse struct {
	Selected int `json:"selected"`
}

func (h *Handler) selectAll(w http.ResponseWriter, r *http.Request) {
	var req selectAllRequest
	if err := decode(r.Body, &req); err != nil {
		fail(w, r, err)
		return
	}

	if req.IDs != nil {
		httperr.JSON(w, http.StatusOK, selectedResponse{Selected: h.svc.SelectAll(req.IDs)})
		return
	}

	filter := bill.ListFilter{Search: req.Query}

	if req.Status != "" {
		status, err := bill.ParseStatus(req.Status)
		if err != nil {
			fail(w, r, err)
			return
		}

		filter.Status = &status
	}

	httperr.JSON(w, http.StatusOK, selectedResponse{Selected: h.svc.SelectFiltered(filter)})
}

func (h *Handler) selectOne(w http.ResponseWriter, r *http.Request) {
	id, err := billID(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.svc.Select(id); err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deselectOne(w http.ResponseWriter, r *http.Request) {
	id, err := billID(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.svc.Deselect(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearSelection(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteSelected(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.RemoveSelected(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	httperr.JSON(w, http.StatusOK, removedResponse{Removed: n})
}
