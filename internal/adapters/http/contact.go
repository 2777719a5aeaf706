package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"alevatex/internal/domain"
	"alevatex/internal/services/submissions"
)

const maxContactBody = 64 << 10

type contactResponse struct {
	State   domain.FormState  `json:"state"`
	Lead    *domain.Lead      `json:"lead,omitempty"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// postContact accepts the contact form as a JSON object or as
// application/x-www-form-urlencoded / multipart fields.
func (s *Server) postContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)
	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	lead, state, err := s.submissions.Submit(r.Context(), fields)
	var verr *submissions.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, contactResponse{State: state, Lead: &lead})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, contactResponse{State: state, Message: "invalid submission", Fields: verr.Fields})
	case state == domain.FormError:
		// The lead is stored; only the relay copy failed.
		writeJSON(w, http.StatusBadGateway, contactResponse{State: state, Lead: &lead, Message: "Something went wrong. Please try again."})
	default:
		s.writeFailure(w, r, err)
	}
}

func readFields(r *http.Request) (map[string]string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json", "":
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding body: %w", err)
		}
		fields := make(map[string]string, len(raw))
		for k, v := range raw {
			switch v := v.(type) {
			case string:
				fields[k] = v
			case nil:
			default:
				return nil, fmt.Errorf("field %q must be a string", k)
			}
		}
		return fields, nil
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxContactBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, fmt.Errorf("parsing form: %w", err)
		}
		fields := make(map[string]string, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				fields[k] = vs[0]
			}
		}
		return fields, nil
	default:
		return nil, fmt.Errorf("unsupported content type %q", ct)
	}
}
