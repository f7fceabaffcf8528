package controllers

import (
	"net/http"

	"go-bookstore/apperr"
	"go-bookstore/catalog"
	"go-bookstore/models"
	"go-bookstore/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// BookController serves the catalog
type BookController struct {
	Catalog *catalog.Catalog
	Logger  zerolog.Logger
}

// NewBookController creates a new BookController
func NewBookController(c *catalog.Catalog, logger zerolog.Logger) *BookController {
	return &BookController{Catalog: c, Logger: logger}
}

type bookView struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Image    string `json:"image"`
}

func newBookView(b models.Book) bookView {
	return bookView{Title: b.Title, Category: b.Category, Price: price(b.Price), Image: b.Image}
}

// GetBooks lists every book for sale
func (bc *BookController) GetBooks(w http.ResponseWriter, r *http.Request) {
	books := bc.Catalog.Books()
	out := make([]bookView, 0, len(books))
	for _, b := range books {
		out = append(out, newBookView(b))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// GetBook looks a book up by title
func (bc *BookController) GetBook(w http.ResponseWriter, r *http.Request) {
	book, ok := bc.Catalog.Find(mux.Vars(r)["title"])
	if !ok {
		respondError(w, bc.Logger, apperr.ErrUnknownItem)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, newBookView(book))
}
