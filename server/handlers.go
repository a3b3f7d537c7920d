package server

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/l3uddz/iconkit/build"
	"github.com/l3uddz/iconkit/database"
	"github.com/l3uddz/iconkit/search"
	"github.com/l3uddz/iconkit/utils/lists"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const defaultLimit = 50

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary
	validate = newValidator()
)

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// invalidRequest is reported to the client as a 400 with its details.
type invalidRequest struct {
	details []string
}

func (e *invalidRequest) Error() string {
	return "invalid request"
}

/* Responses */

type errorRsp struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type iconsRsp struct {
	Icons []database.Icon `json:"icons"`
}

type providersRsp struct {
	Providers []database.Provider `json:"providers"`
}

type licensesRsp struct {
	Licenses []database.License `json:"licenses"`
}

type versionRsp struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	Timestamp string `json:"timestamp"`
}

/* Handlers */

func (s *Server) getIcons(w http.ResponseWriter, r *http.Request) error {
	q, err := parseIconsQuery(r)
	if err != nil {
		return err
	}

	icons, err := s.search.GetIcons(r.Context(), q)
	if err != nil {
		return err
	}

	return sendJSON(w, http.StatusOK, &iconsRsp{Icons: icons})
}

func (s *Server) getProviders(w http.ResponseWriter, r *http.Request) error {
	providers, err := s.db.ListProviders(r.Context())
	if err != nil {
		return err
	}

	return sendJSON(w, http.StatusOK, &providersRsp{Providers: providers})
}

func (s *Server) getLicenses(w http.ResponseWriter, r *http.Request) error {
	licenses, err := s.db.ListLicenses(r.Context())
	if err != nil {
		return err
	}

	return sendJSON(w, http.StatusOK, &licensesRsp{Licenses: licenses})
}

func (s *Server) getVersion(w http.ResponseWriter, _ *http.Request) error {
	return sendJSON(w, http.StatusOK, &versionRsp{
		Version:   build.Version,
		GitCommit: build.GitCommit,
		Timestamp: build.Timestamp,
	})
}

/* Private */

// wrap turns handler errors into responses, unexpected errors never reach the client.
func (s *Server) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var invalid *invalidRequest
		if errors.As(err, &invalid) {
			_ = sendJSON(w, http.StatusBadRequest, &errorRsp{Error: invalid.Error(), Details: invalid.details})
			return
		}

		s.log.WithError(err).WithFields(logrus.Fields{
			"request_id": RequestID(r.Context()),
			"method":     r.Method,
			"url":        r.URL.String(),
		}).Error("Request failed")
		_ = sendJSON(w, http.StatusInternalServerError, &errorRsp{Error: "Internal server error"})
	}
}

func parseIconsQuery(r *http.Request) (search.Query, error) {
	values := r.URL.Query()
	q := search.Query{
		Limit:      defaultLimit,
		SearchText: values.Get("searchText"),
		Preset:     values.Get("preset"),
	}

	var details []string
	parseInt := func(name string, dst *int) {
		raw := values.Get(name)
		if raw == "" {
			return
		}

		v, err := strconv.Atoi(raw)
		if err != nil {
			details = append(details, name+": must be an integer")
			return
		}
		*dst = v
	}

	parseInt("skip", &q.Skip)
	parseInt("limit", &q.Limit)
	if len(details) > 0 {
		return q, &invalidRequest{details: details}
	}

	if err := validate.Struct(q); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return q, errors.Wrap(err, "failed validating icons query")
		}

		for _, e := range ve {
			details = append(details, queryParam(e.StructField())+": failed "+e.Tag()+validationParam(e))
		}
		return q, &invalidRequest{details: details}
	}

	return q, nil
}

func newValidator() *validator.Validate {
	v := validator.New()

	// presets are whatever the search package knows about
	if err := v.RegisterValidation("preset", func(fl validator.FieldLevel) bool {
		return lists.StringListContains(search.Presets(), fl.Field().String(), false)
	}); err != nil {
		panic(err)
	}

	return v
}

func queryParam(field string) string {
	switch field {
	case "Skip":
		return "skip"
	case "Limit":
		return "limit"
	case "SearchText":
		return "searchText"
	case "Preset":
		return "preset"
	default:
		return field
	}
}

func validationParam(e validator.FieldError) string {
	if e.Param() == "" {
		return ""
	}
	return " " + e.Param()
}

func sendJSON(w http.ResponseWriter, status int, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed encoding response")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(b)
	return err
}
