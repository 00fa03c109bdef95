package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zaidnet/tagihan/internal/catalog"
	"github.com/zaidnet/tagihan/internal/http/httperr"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/resolve", h.resolve)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/active", h.setActive)
}

type packageResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Speed       string     `json:"speed,omitempty"`
	Price       int64      `json:"price"`
	Description string     `json:"description,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toResponse(p *catalog.Package) packageResponse {
	return packageResponse{
		ID:          p.ID,
		Name:        p.Name,
		Speed:       p.Speed,
		Price:       p.Price,
		Description: p.Description,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	activeOnly := false

	if s := r.URL.Query().Get("active"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			httperr.BadRequest(w, "active must be true or false")
			return
		}

		activeOnly = v
	}

	pkgs, err := h.svc.List(r.Context(), activeOnly)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	resp := make([]packageResponse, len(pkgs))
	for i, p := range pkgs {
		resp[i] = toResponse(p)
	}

	httperr.JSON(w, http.StatusOK, resp)
}

type createRequest struct {
	Name        string `json:"name"`
	Speed       string `json:"speed"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.Create(r.Context(), catalog.CreateParams{
		Name:        req.Name,
		Speed:       req.Speed,
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	httperr.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.BadRequest(w, "invalid id")
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	httperr.JSON(w, http.StatusOK, toResponse(p))
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.BadRequest(w, "invalid id")
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.SetActive(r.Context(), id, req.Active); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type resolveResponse struct {
	Name     string `json:"name"`
	Resolved string `json:"resolved"`
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		httperr.BadRequest(w, "name query parameter is required")
		return
	}

	resolved, err := h.svc.Resolve(r.Context(), name)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	httperr.JSON(w, http.StatusOK, resolveResponse{Name: name, Resolved: resolved})
}
