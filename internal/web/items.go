package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Zlatonn/warranty-checker/internal/imaging"
	"github.com/Zlatonn/warranty-checker/internal/model"
	"github.com/Zlatonn/warranty-checker/internal/service"
	"github.com/Zlatonn/warranty-checker/internal/store"
)

func formCandidate(r *http.Request) model.Candidate {
	return model.Candidate{
		ItemName:     r.FormValue("itemName"),
		SerialNumber: r.FormValue("serialNumber"),
		EndDate:      r.FormValue("endDate"),
		Notes:        r.FormValue("notes"),
	}
}

// itemFormData is the template payload for the create/edit form.
type itemFormData struct {
	PageData
	Item   *model.Item
	Form   model.Candidate
	Errors []string
}

// ItemsPage handles GET /items.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	query := r.URL.Query().Get("q")

	items, err := service.ListItems(r.Context(), s.DB, query)
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}

	s.Templates.Render(w, "items.html", &struct {
		PageData
		Items []model.Item
		Query string
	}{
		PageData: PageData{Title: "Items", User: claims},
		Items:    items,
		Query:    query,
	})
}

// ItemDetailPage handles GET /items/{id}.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := service.GetItem(r.Context(), s.DB, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, "item_detail.html", &struct {
		PageData
		Item *model.Item
	}{
		PageData: PageData{Title: item.ItemName, User: claims},
		Item:     item,
	})
}

// ItemNewPage handles GET /items/new.
func (s *Server) ItemNewPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	s.Templates.Render(w, "item_form.html", &itemFormData{
		PageData: PageData{Title: "New item", User: claims},
	})
}

// ItemCreateSubmit handles POST /items/new.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	c := formCandidate(r)

	item, err := service.CreateItem(r.Context(), s.DB, c, time.Now())
	if err != nil {
		var verrs model.ValidationErrors
		if errors.As(err, &verrs) {
			s.Templates.Render(w, "item_form.html", &itemFormData{
				PageData: PageData{Title: "New item", User: claims},
				Form:     c,
				Errors:   verrs.Messages(),
			})
			return
		}
		slog.Error("failed to create item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.Info("item created", "user", claims.Username, "item", item.ItemName)
	http.Redirect(w, r, "/items/"+strconv.FormatInt(item.ID, 10), http.StatusSeeOther)
}

// ItemEditPage handles GET /items/{id}/edit.
func (s *Server) ItemEditPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := service.GetItem(r.Context(), s.DB, id)
	if err != nil {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}

	s.Templates.Render(w, "item_form.html", &itemFormData{
		PageData: PageData{Title: "Edit item", User: claims},
		Item:     item,
		Form: model.Candidate{
			ItemName:     item.ItemName,
			SerialNumber: item.SerialNumber,
			EndDate:      item.EndDate,
			Notes:        item.Notes,
		},
	})
}

// ItemUpdateSubmit handles POST /items/{id}/edit.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c := formCandidate(r)

	item, err := service.UpdateItem(r.Context(), s.DB, id, c, time.Now())
	if err != nil {
		var verrs model.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			existing, _ := service.GetItem(r.Context(), s.DB, id)
			s.Templates.Render(w, "item_form.html", &itemFormData{
				PageData: PageData{Title: "Edit item", User: claims},
				Item:     existing,
				Form:     c,
				Errors:   verrs.Messages(),
			})
		case errors.Is(err, service.ErrNotFound):
			http.Error(w, "item not found", http.StatusNotFound)
		default:
			slog.Error("failed to update item", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	slog.Info("item updated", "user", claims.Username, "item", item.ItemName)
	http.Redirect(w, r, "/items/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// ItemDeleteSubmit handles POST /items/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := service.DeleteItem(r.Context(), s.DB, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		slog.Error("failed to delete item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.Info("item deleted", "user", claims.Username, "item", item.ItemName)
	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// ItemReceiptSubmit handles POST /items/{id}/receipt.
func (s *Server) ItemReceiptSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "file too large or invalid form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("receipt")
	if err != nil {
		http.Error(w, "receipt file required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := store.SetItemReceipt(r.Context(), s.DB, id, result.Data, result.MIME); err != nil {
		slog.Error("failed to save receipt", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/items/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// ItemReceiptGet handles GET /items/{id}/receipt.
func (s *Server) ItemReceiptGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	data, mime, err := store.GetItemReceipt(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get receipt", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write receipt response", "error", err)
	}
}
