package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/mail"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/source"
)

// Options configures the HTTP server
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Catalog      source.Catalog
	Mailer       mail.Sender
	ContactRate  float64
	ContactBurst int
	// TrustedProxies lists the CIDRs or addresses whose X-Forwarded-For is honoured.
	TrustedProxies []string
	Logger         log.FieldLogger
}

// NewHTTPServer returns a new HTTP server
func NewHTTPServer(opts Options) (*http.Server, error) {
	server, err := newHTTPServer(opts)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:         opts.Addr,
		Handler:      server.handler(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}, nil
}

type httpServer struct {
	log     log.FieldLogger
	catalog source.Catalog
	mailer  mail.Sender
	limiter *contactLimiter
}

func newHTTPServer(opts Options) (*httpServer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger().WithField("component", "http")
	}
	trusted, err := parseTrustedProxies(opts.TrustedProxies)
	if err != nil {
		return nil, err
	}
	return &httpServer{
		log:     logger,
		catalog: opts.Catalog,
		mailer:  opts.Mailer,
		limiter: newContactLimiter(opts.ContactRate, opts.ContactBurst, trusted),
	}, nil
}

func (h *httpServer) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/cars", h.GetCars).Methods(http.MethodGet)
	r.HandleFunc("/cars/at/{index:[0-9]+}", h.GetCarAt).Methods(http.MethodGet)
	r.HandleFunc("/cars/{id:[0-9]+}", h.GetCar).Methods(http.MethodGet)
	r.HandleFunc("/admin/options", h.GetAdminOptions).Methods(http.MethodGet)
	r.HandleFunc("/admin/cars", h.CreateCar).Methods(http.MethodPost)
	r.HandleFunc("/admin/cars/{id:[0-9]+}", h.DeleteCar).Methods(http.MethodDelete)
	r.HandleFunc("/contact", h.PostContact).Methods(http.MethodPost)
	return r
}

func (h *httpServer) handler() http.Handler {
	return h.cors(h.requestID(h.accessLog(h.recoverer(h.router()))))
}
