// Package app runs one method from raw setup to persisted result.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"boca-cli/internal/access"
	"boca-cli/internal/boca"
	"boca-cli/internal/browser"
	"boca-cli/internal/components/assert"
	"boca-cli/internal/components/telemetry"
	"boca-cli/internal/output"
	"boca-cli/internal/setup"
	"boca-cli/pkg/configutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("boca-cli/internal/app")

const (
	report_invoker_close_session = "invoker.close-session"
	report_invoker_persist       = "invoker.persist"
)

// LoadSetup reads a setup file (JSON or JSON5) merged with its local
// override into its generic form.
func LoadSetup(path string) (map[string]any, error) {
	raw, err := configutil.ReadConfig[map[string]any](path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read setup %s: %w", path, err)
	}
	return raw, nil
}

// Invoker runs methods, one browser session per call.
type Invoker struct {
	validator  *setup.Validator
	opener     browser.Opener
	sink       *output.Sink
	tel        telemetry.API
	clientOpts []boca.Option
}

type InvokerOption func(i *Invoker)

// WithClientOptions is passed on to every boca.Client the invoker creates.
func WithClientOptions(opts ...boca.Option) InvokerOption {
	return func(i *Invoker) {
		i.clientOpts = append(i.clientOpts, opts...)
	}
}

func NewInvoker(validator *setup.Validator, opener browser.Opener, sink *output.Sink, tel telemetry.API, opts ...InvokerOption) Invoker {
	assert.NotNil(validator)
	assert.NotNil(opener)
	assert.NotNil(sink)
	assert.NotNil(tel)

	i := Invoker{
		validator: validator,
		opener:    opener,
		sink:      sink,
		tel:       telemetry.NewScopedAPI("app", tel),
	}
	for _, opt := range opts {
		opt(&i)
	}
	return i
}

// Request is one method call. Role is the role of the credentials when a
// previous call already resolved it, so a forbidden method fails before a
// browser is started.
type Request struct {
	Method access.Method
	Raw    any
	Role   access.Role
}

// Outcome is a successful call.
type Outcome struct {
	Role  access.Role
	Value any
}

func authorize(role access.Role, method access.Method) error {
	category, ok := access.CategoryOf(method)
	if !ok {
		return fmt.Errorf("unknown method %q", method)
	}
	if !access.Authorize(role, category, method) {
		return &PermissionError{Role: role, Category: category, Method: method}
	}
	return nil
}

// Invoke validates the setup, signs in, checks the role may run the method,
// runs it and hands the result to the sink. The browser session is closed
// on every path.
func (i Invoker) Invoke(ctx context.Context, req Request) (out Outcome, err error) {
	s, err := i.validator.Validate(req.Raw, req.Method)
	if err != nil {
		return Outcome{}, err
	}
	if req.Role != "" {
		err = authorize(req.Role, req.Method)
		if err != nil {
			return Outcome{}, err
		}
	}

	ctx, span := tracer.Start(ctx, string(req.Method))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invocation failed")
		}
		span.End()
	}()

	session, err := i.opener.Open(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		closeErr := session.Close()
		if closeErr != nil {
			i.tel.ReportWarning(report_invoker_close_session, closeErr)
		}
	}()

	client, err := boca.NewClient(session, s.Config.Url, i.tel, i.clientOpts...)
	if err != nil {
		return Outcome{}, err
	}
	role, err := client.ResolveRole(ctx, s.Login)
	if err != nil {
		return Outcome{}, err
	}
	span.SetAttributes(attribute.String("boca.role", string(role)))

	err = client.CheckUserType(ctx, role)
	if err != nil {
		return Outcome{Role: role}, err
	}
	err = authorize(role, req.Method)
	if err != nil {
		return Outcome{Role: role}, err
	}

	do, ok := handlers[req.Method]
	if !ok {
		return Outcome{Role: role}, fmt.Errorf("method %q has no executor", req.Method)
	}
	value, err := do(ctx, client, s)
	if err != nil {
		return Outcome{Role: role}, err
	}

	i.sink.Set(req.Method, s.Login.Username, value)
	err = i.sink.Persist(ctx, s.Config)
	if err != nil {
		i.tel.ReportBroken(report_invoker_persist, err, req.Method)
		return Outcome{Role: role, Value: value}, err
	}
	return Outcome{Role: role, Value: value}, nil
}

// ResolveRole signs in with the credentials of raw and returns their role,
// the interactive frontend uses it to build its menus.
func (i Invoker) ResolveRole(ctx context.Context, raw map[string]any) (access.Role, error) {
	login, url, err := credentials(raw)
	if err != nil {
		return "", err
	}

	session, err := i.opener.Open(ctx)
	if err != nil {
		return "", fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		closeErr := session.Close()
		if closeErr != nil {
			i.tel.ReportWarning(report_invoker_close_session, closeErr)
		}
	}()

	client, err := boca.NewClient(session, url, i.tel, i.clientOpts...)
	if err != nil {
		return "", err
	}
	role, err := client.ResolveRole(ctx, login)
	if err != nil {
		return "", err
	}
	return role, client.CheckUserType(ctx, role)
}

// credentials reads config.url and login out of a raw setup without
// validating the rest of it.
func credentials(raw map[string]any) (setup.Login, string, error) {
	var violations []setup.Violation
	config, _ := raw["config"].(map[string]any)
	url, _ := config["url"].(string)
	if url == "" {
		violations = append(violations, setup.Violation{Field: "config.url", Message: "missing url"})
	}
	login, _ := raw["login"].(map[string]any)
	username, _ := login["username"].(string)
	if username == "" {
		violations = append(violations, setup.Violation{Field: "login.username", Message: "missing username"})
	}
	password, _ := login["password"].(string)
	if len(violations) > 0 {
		return setup.Login{}, "", &setup.SchemaError{Violations: violations}
	}
	return setup.Login{Username: username, Password: password}, url, nil
}
