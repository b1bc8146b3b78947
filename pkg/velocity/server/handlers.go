package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/mail"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/source"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/view"
)

const maxBodyBytes = 1 << 20

// Health reports liveness
func (h *httpServer) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// GetCars defines a GET handler listing the catalog through the query's criteria
func (h *httpServer) GetCars(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		h.log.Printf("criteria validation failed: %v", err)
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error(), nil)
		return
	}

	catalog := view.NewCatalogView(h.catalog, criteria)
	defer catalog.Close()

	if err := catalog.Open(r.Context()); err != nil {
		h.writeViewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, catalog.Response())
}

// GetCar defines a GET handler returning one vehicle by id
func (h *httpServer) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be a number", nil)
		return
	}

	detail := view.NewDetailView(h.catalog)
	defer detail.Close()

	if err := detail.OpenByID(r.Context(), id); err != nil {
		h.writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail.Response())
}

// GetCarAt defines a GET handler returning the vehicle at a catalog position
func (h *httpServer) GetCarAt(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_index", "index must be a number", nil)
		return
	}

	detail := view.NewDetailView(h.catalog)
	defer detail.Close()

	if err := detail.OpenAt(r.Context(), index); err != nil {
		h.writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail.Response())
}

// GetAdminOptions returns the choices offered by the admin form
func (h *httpServer) GetAdminOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"brands":  view.BrandOptions,
		"types":   view.TypeOptions,
		"engines": view.EngineOptions,
	})
}

// CreateCar defines a POST handler adding a vehicle to the catalog
func (h *httpServer) CreateCar(w http.ResponseWriter, r *http.Request) {
	var draft dal.Vehicle
	if err := decodeBody(w, r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	form := view.NewAdminForm(h.catalog)
	defer form.Close()
	form.SetDraft(draft)

	created, err := form.Submit(r.Context())
	if err != nil {
		h.writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteCar defines a DELETE handler removing a vehicle by id
func (h *httpServer) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be a number", nil)
		return
	}

	form := view.NewAdminForm(h.catalog)
	defer form.Close()

	if err := form.Delete(r.Context(), id); err != nil {
		h.writeViewError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostContact defines a POST handler forwarding a contact message by email
func (h *httpServer) PostContact(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.allow(r) {
		writeError(w, http.StatusTooManyRequests, "rate_limited", "Too many messages, try again later", nil)
		return
	}

	form := view.NewContactForm(h.mailer)
	if err := readContact(w, r, form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	res := form.Submit(r.Context())
	if res.Err != nil {
		var verr *view.ValidationError
		if errors.As(res.Err, &verr) {
			writeError(w, http.StatusBadRequest, "validation_failed", verr.Error(), verr.Fields)
			return
		}
		h.log.Printf("contact send failed: %v", res.Err)
		writeJSON(w, http.StatusBadGateway, dal.ContactResponse{Sent: false, Message: "Your message could not be sent. Please try again."})
		return
	}
	writeJSON(w, http.StatusOK, dal.ContactResponse{Sent: true, Message: "Email sent successfully!"})
}

// readContact fills form from a JSON body or, for HTML form posts, from the
// form inputs by name.
func readContact(w http.ResponseWriter, r *http.Request, form *view.ContactForm) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		var msg mail.Message
		if err := decodeBody(w, r, &msg); err != nil {
			return err
		}
		form.SetMessage(msg)
		return nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("invalid form body: %w", err)
	}
	for name := range r.PostForm {
		if err := form.SetField(name, r.PostForm.Get(name)); err != nil {
			return err
		}
	}
	return nil
}

func (h *httpServer) writeViewError(w http.ResponseWriter, err error) {
	var (
		fetchErr  *source.FetchError
		submitErr *source.SubmitError
		verr      *view.ValidationError
	)
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "validation_failed", verr.Error(), verr.Fields)
	case errors.Is(err, view.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "No car details available", nil)
	case errors.Is(err, dal.ErrNegativePrice), errors.Is(err, dal.ErrNegativeTopSpeed):
		writeError(w, http.StatusBadRequest, "invalid_vehicle", err.Error(), nil)
	case errors.As(err, &fetchErr):
		h.log.Printf("catalog fetch failed: %v", err)
		writeError(w, http.StatusBadGateway, "catalog_unavailable", "Error fetching cars. Please try again later.", nil)
	case errors.As(err, &submitErr):
		h.log.Printf("catalog %s failed: %v", submitErr.Op, err)
		writeError(w, http.StatusBadGateway, "submit_failed", fmt.Sprintf("Error during %s. Please try again.", submitErr.Op), nil)
	default:
		h.log.Printf("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "An internal error occurred", nil)
	}
}

func criteriaFromQuery(vars url.Values) (dal.Criteria, error) {
	c := dal.DefaultCriteria()
	c.Search = vars.Get("search")
	if brand := vars.Get("brand"); brand != "" {
		c.Brand = brand
	}
	if vehicleType := vars.Get("type"); vehicleType != "" {
		c.Type = vehicleType
	}

	minPrice, err := validateNumber(vars, "min_price", 0)
	if err != nil {
		return c, err
	}
	maxPrice, err := validateNumber(vars, "max_price", dal.NoMaxPrice)
	if err != nil {
		return c, err
	}
	if minPrice > maxPrice {
		return c, fmt.Errorf("min_price %d is above max_price %d", minPrice, maxPrice)
	}
	c.PriceRange = dal.PriceRange{Min: minPrice, Max: maxPrice}

	speed, err := validateNumber(vars, "min_top_speed", 0)
	if err != nil {
		return c, err
	}
	c.MinTopSpeed = int(speed)
	return c, nil
}

func validateNumber(vars url.Values, key string, fallback int64) (int64, error) {
	raw := vars.Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %q", key, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must be a positive number: %d", key, n)
	}
	return n, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string, details []dal.FieldError) {
	writeJSON(w, status, dal.ErrorResponse{
		Error:   code,
		Message: message,
		Details: details,
	})
}
