package endpoint

import (
	"context"
	"encoding/json"
	"github.com/viant/lambdagate/consumer"
	"github.com/viant/lambdagate/shared"
	"html/template"
	"log/slog"
	"net/http"
)

const (
	//AddressField form field carrying the caller address
	AddressField = "address"

	notConnectedMessage = "MetaMask not Connected"
	unauthorizedMessage = "Unauthorized Account"
	timeoutMessage      = "No Records Available"
	decodeFailedMessage = "Malformed Record"
	internalMessage     = "Internal Error"

	maxBodySize = 1024 * 1024
)

var form = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<form method="POST" action="{{.Action}}">
<input type="text" name="{{.Field}}" id="{{.Field}}" placeholder="0x..."/>
<input type="submit" value="Connect"/>
</form>
</body>
</html>
`))

//Consumer delivers stream payloads to authorized addresses
type Consumer interface {
	Consume(ctx context.Context, session *consumer.Session, address string) ([]interface{}, error)
}

//Handler serves the address form and consumes stream on submission
type Handler struct {
	consumer Consumer
	log      *slog.Logger
}

//Message represents a non payload reply
type Message struct {
	Hi string `json:"hi"`
}

//HandleForm renders address form
func (h *Handler) HandleForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := form.Execute(w, map[string]string{"Title": "canaal", "Action": r.URL.Path, "Field": AddressField})
	if err != nil {
		h.log.Error("failed to render form", "err", err)
	}
}

//HandleConsume returns JSON array of the next stream payloads for the submitted address
func (h *Handler) HandleConsume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	address := r.PostForm.Get(AddressField)
	payloads, err := h.consumer.Consume(r.Context(), nil, address)
	if err != nil {
		h.writeError(w, address, err)
		return
	}
	h.writeJSON(w, http.StatusOK, payloads)
}

func (h *Handler) writeError(w http.ResponseWriter, address string, err error) {
	switch shared.KindOf(err) {
	case shared.NotConnected:
		h.writeJSON(w, http.StatusOK, &Message{Hi: notConnectedMessage})
	case shared.Unauthorized:
		h.log.Info("unauthorized address", "address", address)
		h.writeJSON(w, http.StatusOK, &Message{Hi: unauthorizedMessage})
	case shared.Timeout:
		h.writeJSON(w, http.StatusGatewayTimeout, &Message{Hi: timeoutMessage})
	case shared.DecodeFailed:
		h.log.Error("failed to decode records", "err", err)
		h.writeJSON(w, http.StatusBadGateway, &Message{Hi: decodeFailedMessage})
	default:
		h.log.Error("failed to consume", "address", address, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, &Message{Hi: internalMessage})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		h.log.Error("failed to encode response", "err", err)
		http.Error(w, internalMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

//NewHandler creates a handler
func NewHandler(consumer Consumer, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{consumer: consumer, log: log}
}
