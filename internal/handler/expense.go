package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/service"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to disk. Receipts are small; 10 MiB covers the upload cap.
const multipartMemory = 10 << 20

// expenseFileResponse is the metadata of a receipt file in responses.
type expenseFileResponse struct {
	ID        uuid.UUID `json:"id"`
	ExpenseID uuid.UUID `json:"expense_id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// expenseResponse is the JSON shape of an expense in responses.
// Files is always present, never null.
type expenseResponse struct {
	ID          uuid.UUID             `json:"id"`
	TripID      uuid.UUID             `json:"trip_id"`
	Category    string                `json:"category"`
	Amount      decimal.Decimal       `json:"amount"`
	Currency    string                `json:"currency"`
	ReceiptType domain.ReceiptType    `json:"receipt_type"`
	ExpenseDate string                `json:"expense_date"`
	Files       []expenseFileResponse `json:"files"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func toExpenseResponse(e domain.Expense) expenseResponse {
	files := make([]expenseFileResponse, 0, len(e.Files))
	for _, f := range e.Files {
		files = append(files, expenseFileResponse{
			ID:        f.ID,
			ExpenseID: f.ExpenseID,
			Filename:  f.Filename,
			MimeType:  f.MimeType,
			CreatedAt: f.CreatedAt,
		})
	}
	return expenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		Category:    e.Category,
		Amount:      e.Amount,
		Currency:    e.Currency,
		ReceiptType: e.ReceiptType,
		ExpenseDate: e.ExpenseDate.Format(dateLayout),
		Files:       files,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toExpenseResponses(expenses []domain.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	return out
}

// CreateExpense handles POST /trasferte/{tripID}/spese.
// The request is multipart/form-data: scalar fields plus zero or more
// receipt uploads under the "files" field.
func (s *Server) CreateExpense(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeRequestError(w, "expected multipart/form-data")
		return
	}

	input := service.ExpenseInput{
		TripID:   tripID,
		Category: r.FormValue("categoria"),
		Currency: r.FormValue("valuta"),
	}

	if raw := r.FormValue("importo"); raw != "" {
		input.Amount, err = decimal.NewFromString(raw)
		if err != nil {
			writeRequestError(w, "importo must be a decimal number")
			return
		}
	}
	if raw := r.FormValue("tipo_scontrino"); raw != "" {
		input.ReceiptType, err = domain.ParseReceiptType(raw)
		if err != nil {
			writeError(w, err)
			return
		}
	} else {
		input.ReceiptType = domain.ReceiptOther
	}
	if raw := r.FormValue("data_spesa"); raw != "" {
		input.ExpenseDate, err = time.Parse(dateLayout, raw)
		if err != nil {
			writeRequestError(w, "data_spesa must be in YYYY-MM-DD format")
			return
		}
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			upload, err := readUpload(header)
			if err != nil {
				writeRequestError(w, fmt.Sprintf("cannot read upload %q", header.Filename))
				return
			}
			input.Files = append(input.Files, upload)
		}
	}

	expense, err := s.expenses.Create(r.Context(), actor, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

// readUpload drains one multipart file part into memory.
func readUpload(header *multipart.FileHeader) (service.FileUpload, error) {
	f, err := header.Open()
	if err != nil {
		return service.FileUpload{}, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return service.FileUpload{}, err
	}
	return service.FileUpload{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Content:  content,
	}, nil
}

// ListMyExpenses handles GET /spese/mine.
func (s *Server) ListMyExpenses(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	expenses, err := s.expenses.ListMine(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponses(expenses))
}

// ListAllExpenses handles GET /spese. Manager/admin only.
func (s *Server) ListAllExpenses(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	p := queryPagination(r)
	expenses, total, err := s.expenses.ListAll(r.Context(), actor, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{
		Items: toExpenseResponses(expenses),
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// GetExpenseFile handles GET /spese/file/{fileID}.
// Streams the stored receipt bytes with the original MIME type and filename.
func (s *Server) GetExpenseFile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	fileID, err := pathUUID(r, "fileID")
	if err != nil {
		writeRequestError(w, "invalid file id")
		return
	}

	file, err := s.expenses.GetFile(r.Context(), actor, fileID)
	if err != nil {
		writeError(w, err)
		return
	}

	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}

// DeleteExpenseFile handles DELETE /spese/file/{fileID}.
func (s *Server) DeleteExpenseFile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	fileID, err := pathUUID(r, "fileID")
	if err != nil {
		writeRequestError(w, "invalid file id")
		return
	}

	if err := s.expenses.DeleteFile(r.Context(), actor, fileID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
