package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"groupadmin/internal/apiclient"
	"groupadmin/internal/model"
)

const itemsResource = "items"

type itemsPageData struct {
	PageData
	Items   []model.Item
	NewItem itemForm
	Editing *itemForm
}

// itemForm carries raw item form values so a rejected submission can be
// redisplayed exactly as typed.
type itemForm struct {
	ID       string
	Name     string
	Price    string
	Category string
}

func readItemForm(r *http.Request) itemForm {
	return itemForm{
		ID:       strings.TrimSpace(r.FormValue("id")),
		Name:     strings.TrimSpace(r.FormValue("name")),
		Price:    strings.TrimSpace(r.FormValue("price")),
		Category: strings.TrimSpace(r.FormValue("category")),
	}
}

// demoErrorMessages resolves an API failure for the unguarded demo page,
// where an authentication failure becomes a hint instead of a redirect.
func demoErrorMessages(err error) []string {
	msgs, unauthorized := resolveError(err)
	if unauthorized {
		return []string{"Sign in to use the item API."}
	}
	return msgs
}

func (s *Server) fetchItems(ctx context.Context) ([]model.Item, error) {
	data, err := s.Cache.Get(ctx, itemsResource, nil, func(ctx context.Context) (any, error) {
		page, err := s.API.ListItems(ctx, apiclient.ItemsQuery{})
		if err != nil {
			return nil, err
		}
		return page.Items, nil
	})
	if err != nil {
		return nil, err
	}
	return data.([]model.Item), nil
}

func (s *Server) staleItems() []model.Item {
	data, ok := s.Cache.Stale(itemsResource, nil)
	if !ok {
		return nil
	}
	return data.([]model.Item)
}

// ItemsPage handles GET /demo, the unguarded item management demo.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	data := itemsPageData{
		PageData: PageData{Title: "Items demo"},
	}

	items, err := s.fetchItems(r.Context())
	if err != nil {
		data.Errors = demoErrorMessages(err)
		data.Items = s.staleItems()
		s.Templates.Render(w, "items.html", data)
		return
	}
	data.Items = items

	if editID := r.URL.Query().Get("edit"); editID != "" {
		for _, item := range items {
			if item.ID == editID {
				data.Editing = &itemForm{
					ID:       item.ID,
					Name:     item.Name,
					Price:    strconv.FormatFloat(item.Price, 'f', -1, 64),
					Category: item.Category,
				}
				break
			}
		}
	}

	s.Templates.Render(w, "items.html", data)
}

// CreateItem handles POST /demo/items/create.
func (s *Server) CreateItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := readItemForm(r)

	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil {
		s.Templates.Render(w, "items.html", itemsPageData{
			PageData: PageData{Title: "Items demo", Errors: []string{"Price must be a number"}},
			Items:    s.staleItems(),
			NewItem:  form,
		})
		return
	}

	item := model.Item{ID: form.ID, Name: form.Name, Price: price, Category: form.Category}

	err = s.Cache.Do(r.Context(), func(ctx context.Context) error {
		return s.API.CreateItem(ctx, item)
	}, itemsResource)
	if err != nil {
		s.Templates.Render(w, "items.html", itemsPageData{
			PageData: PageData{Title: "Items demo", Errors: demoErrorMessages(err)},
			Items:    s.staleItems(),
			NewItem:  form,
		})
		return
	}

	http.Redirect(w, r, "/demo", http.StatusSeeOther)
}

// UpdateItem handles POST /demo/items/{id}/edit. Only changed fields are
// sent.
func (s *Server) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	form := readItemForm(r)
	form.ID = id

	renderFailure := func(msgs []string) {
		editing := form
		s.Templates.Render(w, "items.html", itemsPageData{
			PageData: PageData{Title: "Items demo", Errors: msgs},
			Items:    s.staleItems(),
			Editing:  &editing,
		})
	}

	var patch model.ItemPatch
	if form.Name != r.FormValue("orig_name") {
		patch.Name = &form.Name
	}
	if form.Category != r.FormValue("orig_category") {
		patch.Category = &form.Category
	}
	if form.Price != r.FormValue("orig_price") {
		price, err := strconv.ParseFloat(form.Price, 64)
		if err != nil {
			renderFailure([]string{"Price must be a number"})
			return
		}
		patch.Price = &price
	}

	if patch.Name == nil && patch.Price == nil && patch.Category == nil {
		http.Redirect(w, r, "/demo", http.StatusSeeOther)
		return
	}

	err := s.Cache.Do(r.Context(), func(ctx context.Context) error {
		return s.API.UpdateItem(ctx, id, patch)
	}, itemsResource)
	if err != nil {
		renderFailure(demoErrorMessages(err))
		return
	}

	http.Redirect(w, r, "/demo", http.StatusSeeOther)
}

// DeleteItem handles POST /demo/items/{id}/delete.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := s.Cache.Do(r.Context(), func(ctx context.Context) error {
		return s.API.DeleteItem(ctx, id)
	}, itemsResource)
	if err != nil {
		s.Templates.Render(w, "items.html", itemsPageData{
			PageData: PageData{Title: "Items demo", Errors: demoErrorMessages(err)},
			Items:    s.staleItems(),
		})
		return
	}

	http.Redirect(w, r, "/demo", http.StatusSeeOther)
}
