package handlers

import (
	"net/http"
	"net/url"

	"github.com/anipix/anipix/internal/models"
	"github.com/anipix/anipix/internal/query"
	"github.com/go-chi/chi/v5"
)

// RelatedLimit is how many related images the detail view shows
const RelatedLimit = 4

// PageResponse is a page of records as returned by the API
type PageResponse struct {
	Items      []models.ImageView `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalItems int                `json:"total_items"`
	TotalPages int                `json:"total_pages"`
	Start      int                `json:"start"`
	End        int                `json:"end"`
}

// SearchResponse is a search page plus the state that produced it
type SearchResponse struct {
	PageResponse
	State query.ViewState `json:"state"`
	URL   string          `json:"url"`
}

// DetailResponse is a single record with related records
type DetailResponse struct {
	Image   models.ImageView   `json:"image"`
	Related []models.ImageView `json:"related"`
}

func newPageResponse(p query.Page) PageResponse {
	return PageResponse{
		Items:      models.NewImageViews(p.Items),
		Page:       p.PageNumber,
		PageSize:   p.PageSize,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
		Start:      p.Start(),
		End:        p.End(),
	}
}

// HandleGallery serves a page of the full catalog
func (h *Handler) HandleGallery(w http.ResponseWriter, r *http.Request) {
	h.metrics.ObserveQuery("gallery")

	pageNumber := query.ParsePage(r.URL.Query().Get("page"))
	page := query.Paginate(h.engine.Store().All(), pageNumber, query.GalleryPageSize)
	h.writeJSON(w, newPageResponse(page))
}

// HandleSearch serves a page of search results for ?q=&tag=&page=
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	h.metrics.ObserveQuery("search")

	state := query.ParseViewState(r.URL.Query())
	page := state.Visible(h.engine, query.SearchPageSize)
	h.writeJSON(w, SearchResponse{
		PageResponse: newPageResponse(page),
		State:        state,
		URL:          state.Path(),
	})
}

// HandleTags lists every tag in the catalog
func (h *Handler) HandleTags(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{
		"tags": h.engine.Store().Tags(),
	})
}

// HandleImageDetail serves one record by title with its related records
func (h *Handler) HandleImageDetail(w http.ResponseWriter, r *http.Request) {
	h.metrics.ObserveQuery("detail")

	// chi matches on RawPath when the request carried one, leaving the
	// parameter escaped; otherwise it is already decoded
	title := chi.URLParam(r, "title")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(title)
		if err != nil {
			h.writeError(w, "Invalid title", http.StatusBadRequest)
			return
		}
		title = unescaped
	}
	image, err := h.engine.Store().ByTitle(title)
	if err != nil {
		h.writeError(w, "Image not found", errorStatus(err))
		return
	}

	h.writeJSON(w, DetailResponse{
		Image:   models.NewImageView(image),
		Related: models.NewImageViews(h.engine.Store().Related(image, RelatedLimit)),
	})
}
