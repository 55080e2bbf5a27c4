package status

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carson-networks/finance-server/internal/logging"
)

type queue interface {
	QueueDepth() int
}

type Handler struct {
	Operator queue
}

func NewHandler(op queue) Handler {
	return Handler{Operator: op}
}

type response struct {
	Status     string `json:"status"`
	QueueDepth int    `json:"queueDepth"`
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	resp := response{Status: "ok"}
	if h.Operator != nil {
		resp.QueueDepth = h.Operator.QueueDepth()
	}
	logData.AddData("queueDepth", resp.QueueDepth)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(resp)
}
