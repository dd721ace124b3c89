package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/smartpark/parking-portal/internal/http/respond"
	"github.com/smartpark/parking-portal/internal/parking"
)

// pathID parses the named integer path segment.
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// relayError surfaces a remote API failure to the caller: the remote status
// and message pass through, anything else becomes a bad-gateway.
func relayError(w http.ResponseWriter, op string, err error) {
	var apiErr *parking.APIError
	if errors.As(err, &apiErr) {
		respond.Error(w, apiErr.Status, apiErr.Message)
		return
	}
	log.Printf("%s: %v", op, err)
	respond.Error(w, http.StatusBadGateway, "parking service unavailable")
}
