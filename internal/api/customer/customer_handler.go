package customer

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-chi/chi/v5"

	"github.com/kanworks/kanapi/internal/api"
	"github.com/kanworks/kanapi/internal/types"
)

// CustomerHandler serves generated demo customers. Customers have no
// persistence of their own; the endpoint exists for the demo frontend.
type CustomerHandler struct {
	logger *slog.Logger
}

func NewCustomerHandler(logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{logger: logger}
}

// GetCustomer returns a demo customer for the requested numeric ID.
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.Atoi(chi.URLParam(r, "customerID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "customer id must be an integer")
		return
	}

	phone := gofakeit.Phone()
	address := gofakeit.Address().Address
	api.WriteJSONResponse(w, r, http.StatusOK, types.Customer{
		ID:      customerID,
		Name:    gofakeit.Name(),
		Email:   gofakeit.Email(),
		Phone:   &phone,
		Address: &address,
	})
}
