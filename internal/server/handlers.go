package server

import (
	"net/http"
	"strconv"

	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/pagination"
	"github.com/GRBadas/Planilha-Django/internal/service"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	storage service.Storage
}

type cardRequest struct {
	Limit   *model.Amount  `json:"limite"`
	Balance *model.Amount  `json:"saldo"`
	Name    string         `json:"nome" binding:"required,max=100"`
	Kind    model.CardKind `json:"tipo" binding:"required,card_kind"`
}

func (r cardRequest) card() model.Card {
	return model.Card{Name: r.Name, Kind: r.Kind, Limit: r.Limit, Balance: r.Balance}
}

type categoryRequest struct {
	Name string `json:"nome" binding:"required,max=100"`
}

type transactionRequest struct {
	CardID      *int            `json:"cartao" binding:"omitempty,min=1"`
	Description string          `json:"descricao" binding:"required,max=255"`
	Date        string          `json:"data" binding:"required,ymd"`
	Direction   model.Direction `json:"tipo" binding:"required,direction"`
	Amount      model.Amount    `json:"valor" binding:"gt=0"`
	CategoryID  int             `json:"categoria" binding:"required,min=1"`
}

func (r transactionRequest) input() model.TransactionInput {
	// ymd already accepted the date.
	date, _ := model.ParseDate(r.Date)
	return model.TransactionInput{
		Date:        date,
		CardID:      r.CardID,
		Description: r.Description,
		Direction:   r.Direction,
		Amount:      r.Amount,
		CategoryID:  r.CategoryID,
	}
}

// parsePathID extracts a positive integer id from the :id route parameter.
func parsePathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, ErrNotFound
	}
	return id, nil
}

// Cards

func (h *handlers) listCards(c *gin.Context) {
	cards, err := h.storage.ListCards(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(cards))
}

func (h *handlers) getCard(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	card, err := h.storage.GetCard(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *handlers) createCard(c *gin.Context) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	card, err := h.storage.CreateCard(c.Request.Context(), req.card())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *handlers) updateCard(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	card, err := h.storage.UpdateCard(c.Request.Context(), id, req.card())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *handlers) deleteCard(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.storage.DeleteCard(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Categories

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.storage.ListCategories(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(categories))
}

func (h *handlers) getCategory(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	category, err := h.storage.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *handlers) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	category, err := h.storage.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *handlers) updateCategory(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	category, err := h.storage.UpdateCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *handlers) deleteCategory(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.storage.DeleteCategory(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Transactions

func (h *handlers) listTransactions(c *gin.Context) {
	var req pagination.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, ErrInvalidPage)
		return
	}
	req.Defaults()

	items, count, err := h.storage.ListTransactions(c.Request.Context(), req.Offset(), req.PageSize)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if req.Page > 1 && req.Page > pagination.TotalPages(count, req.PageSize) {
		respondWithError(c, ErrInvalidPage)
		return
	}
	c.JSON(http.StatusOK, pagination.NewPageResponse(items, count))
}

func (h *handlers) getTransaction(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	tx, err := h.storage.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *handlers) createTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	tx, err := h.storage.CreateTransaction(c.Request.Context(), req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *handlers) updateTransaction(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	tx, err := h.storage.UpdateTransaction(c.Request.Context(), id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *handlers) deleteTransaction(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.storage.DeleteTransaction(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) spendingByCategory(c *gin.Context) {
	totals, err := h.storage.SpendingByCategory(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(totals))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
