package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/storage"
)

// DeleteAccountOutput carries only the status.
type DeleteAccountOutput struct {
	Status int
}

type accountDeleter interface {
	DeleteAccount(ctx context.Context, session storage.Session, id uuid.UUID) error
}

// DeleteAccountHandler handles DELETE /v1/account/{id}. Transactions that
// reference the account are kept.
type DeleteAccountHandler struct {
	AccountService accountDeleter
}

func NewDeleteAccountHandler(svc accountDeleter) *DeleteAccountHandler {
	return &DeleteAccountHandler{AccountService: svc}
}

func (h *DeleteAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-account",
		Method:        http.MethodDelete,
		Path:          "/v1/account/{id}",
		Summary:       "Delete an account",
		DefaultStatus: http.StatusNoContent,
		Tags:          []string{"Accounts"},
	}, h.handle)
}

func (h *DeleteAccountHandler) handle(ctx context.Context, input *AccountPathInput) (*DeleteAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	session, err := handlerutil.Session(ctx)
	if err != nil {
		return nil, err
	}

	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}

	stopTimer := logData.AddTiming("deleteAccountMs")
	err = h.AccountService.DeleteAccount(ctx, session, id)
	stopTimer()
	if err != nil {
		return nil, handlerutil.Error("failed to delete account", err)
	}

	logData.AddData("accountID", id.String())
	return &DeleteAccountOutput{Status: http.StatusNoContent}, nil
}
