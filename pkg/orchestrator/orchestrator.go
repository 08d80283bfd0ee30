package orchestrator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-stockform/pkg/client"
	"github.com/goliatone/go-stockform/pkg/feedback"
	"github.com/goliatone/go-stockform/pkg/form"
	"github.com/goliatone/go-stockform/pkg/model"
	"github.com/goliatone/go-stockform/pkg/payload"
	"github.com/goliatone/go-stockform/pkg/routes"
	"github.com/goliatone/go-stockform/pkg/session"
	"github.com/goliatone/go-stockform/pkg/workflow"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithBaseURL sets the inventory API base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *Orchestrator) {
		o.baseURL = baseURL
	}
}

// WithRoutesDocument points route resolution at an OpenAPI file instead of
// the embedded document.
func WithRoutesDocument(path string) Option {
	return func(o *Orchestrator) {
		o.routesDocument = path
	}
}

// WithHTTPClient injects the http.Client used for submissions.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Orchestrator) {
		o.httpClient = c
	}
}

// WithTimeout bounds each submission request.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		o.timeout = timeout
	}
}

// WithHeaders adds static headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(o *Orchestrator) {
		for k, v := range headers {
			if o.headers == nil {
				o.headers = make(map[string]string, len(headers))
			}
			o.headers[k] = v
		}
	}
}

// WithSessions injects the session lookup used to stamp the godown id.
func WithSessions(provider session.Provider) Option {
	return func(o *Orchestrator) {
		o.sessions = provider
	}
}

// WithPresenter injects the outcome presenter. Without one, outcomes are
// recorded and logged.
func WithPresenter(presenter feedback.Presenter) Option {
	return func(o *Orchestrator) {
		o.presenter = presenter
	}
}

// WithMessages overrides the user-facing texts.
func WithMessages(messages feedback.Messages) Option {
	return func(o *Orchestrator) {
		o.messages = messages.WithDefaults()
	}
}

// WithDestination overrides the post-success navigation target.
func WithDestination(destination string) Option {
	return func(o *Orchestrator) {
		o.destination = destination
	}
}

// WithLogger routes logs from every wired component to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer overrides the tracer used for submission spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = tracer
	}
}

// WithObserver registers a workflow transition observer.
func WithObserver(fn func(workflow.Transition)) Option {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

// Orchestrator assembles ready-to-use submissions. Missing collaborators are
// filled with the built-in implementations.
type Orchestrator struct {
	baseURL        string
	routesDocument string
	override       RouteOverride
	httpClient     *http.Client
	timeout        time.Duration
	headers        map[string]string
	sessions       session.Provider
	presenter      feedback.Presenter
	messages       feedback.Messages
	destination    string
	logger         logrus.FieldLogger
	tracer         trace.Tracer
	observer       func(workflow.Transition)
	initialiseErr  error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	o := &Orchestrator{
		messages:    feedback.DefaultMessages(),
		destination: feedback.DestinationProductList,
		logger:      quiet,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	return o
}

// Submission bundles the pieces of one add-product screen.
type Submission struct {
	Form      *form.Form
	Route     routes.Route
	Client    *client.HTTPClient
	Presenter feedback.Presenter
	Workflow  *workflow.Workflow
}

// Prepare resolves the add-product route and builds a fresh form bound to a
// workflow.
func (o *Orchestrator) Prepare(ctx context.Context) (*Submission, error) {
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}

	route, err := routes.ResolveFile(ctx, o.routesDocument, model.OperationAddProduct)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: resolve route: %w", err)
	}
	route = o.override.apply(route)

	def := model.ProductForm()
	clientOpts := []client.Option{
		client.WithForm(def),
		client.WithLogger(o.logger),
		client.WithHTTPClient(o.httpClient),
		client.WithTimeout(o.timeout),
	}
	for _, key := range sortedKeys(o.headers) {
		clientOpts = append(clientOpts, client.WithHeader(key, o.headers[key]))
	}
	sender, err := client.New(o.baseURL, route, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build client: %w", err)
	}

	presenter := o.presenter
	if presenter == nil {
		presenter = feedback.NewRecorder(o.logNotification)
	}

	f := form.New(def)
	wf := workflow.New(f, payload.NewBuilder(o.sessions), sender, presenter,
		workflow.WithLogger(o.logger),
		workflow.WithMessages(o.messages),
		workflow.WithDestination(o.destination),
		workflow.WithTracer(o.tracer),
		workflow.WithObserver(o.observer),
	)

	o.logger.WithFields(logrus.Fields{
		"method":   route.Method,
		"endpoint": sender.Endpoint(),
	}).Debug("add-product submission prepared")

	return &Submission{
		Form:      f,
		Route:     route,
		Client:    sender,
		Presenter: presenter,
		Workflow:  wf,
	}, nil
}

func (o *Orchestrator) logNotification(n feedback.Notification) {
	entry := o.logger.WithField("kind", n.Kind)
	switch n.Kind {
	case feedback.KindError:
		entry.Error(n.Message)
	case feedback.KindSuccess:
		entry.WithField("description", n.Description).Info(n.Message)
	default:
		entry.Info(n.Message)
	}
}

// Fill copies values onto the form. The product type accepts either the
// option value ("5") or its label ("5 kw").
func (s *Submission) Fill(values map[string]string) error {
	def := s.Form.Definition()
	for _, name := range sortedKeys(values) {
		value := values[name]
		field, ok := def.Field(name)
		if !ok {
			return fmt.Errorf("%w: %q", form.ErrUnknownField, name)
		}
		if field.Type == model.FieldTypeEnum {
			value = optionValue(field, value)
		}
		if err := s.Form.SetValue(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Submit runs one workflow attempt.
func (s *Submission) Submit(ctx context.Context) (workflow.Result, error) {
	return s.Workflow.Submit(ctx)
}

func optionValue(field model.Field, raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, opt := range field.Options {
		if opt.Value == trimmed || strings.EqualFold(opt.Label, trimmed) {
			return opt.Value
		}
	}
	return raw
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
