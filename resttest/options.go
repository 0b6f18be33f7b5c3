package resttest

import (
	"net/http"

	"github.com/jsgarvin/arid/framework/helpers"
	"github.com/jsgarvin/arid/framework/opt"
)

// RequestOptions is the configuration of a single DSL call. It is built from RequestOption
// values passed among the call's arguments.
//
// The expected response is resolved in this order: the verb's default (success for list, show,
// build and edit pages; redirect for create, update and destroy), then the AJAX default
// (success), then an explicit Expects option.
type RequestOptions struct {
	Params  Params
	Expects opt.Maybe[Expect]
	ViaAJAX bool
	Headers http.Header

	// Verify, if set, receives the response instead of the automatic redirect-follow.
	Verify func(*Response)

	// ExpectMissing is the response expected from the final show of an exercise, after the
	// resource was destroyed. The default is a 404.
	ExpectMissing opt.Maybe[Expect]
}

// RequestOption is a functional option for a DSL call.
type RequestOption helpers.ConfigOption[RequestOptions]

func requestOption(fn func(*RequestOptions)) RequestOption {
	return helpers.OptionFunc[RequestOptions](func(o *RequestOptions) error {
		fn(o)
		return nil
	})
}

// WithParams sets the parameters to submit. Passing a Params value directly as an argument
// does the same thing.
func WithParams(params Params) RequestOption {
	return requestOption(func(o *RequestOptions) { o.Params = params })
}

// Expects overrides the expected response.
func Expects(e Expect) RequestOption {
	return requestOption(func(o *RequestOptions) { o.Expects = opt.Some(e) })
}

// ViaAJAX sends the request the way a script would, and checks that forms are wired for it.
func ViaAJAX() RequestOption {
	return requestOption(func(o *RequestOptions) { o.ViaAJAX = true })
}

// WithHeader adds or overrides one request header.
func WithHeader(name, value string) RequestOption {
	return requestOption(func(o *RequestOptions) {
		if o.Headers == nil {
			o.Headers = make(http.Header)
		}
		o.Headers.Set(name, value)
	})
}

// WithHeaders adds or overrides request headers.
func WithHeaders(headers http.Header) RequestOption {
	return requestOption(func(o *RequestOptions) {
		if o.Headers == nil {
			o.Headers = make(http.Header)
		}
		for name, values := range headers {
			o.Headers[http.CanonicalHeaderKey(name)] = helpers.CopyOf(values)
		}
	})
}

// Verify hands the response to fn instead of following a redirect.
func Verify(fn func(*Response)) RequestOption {
	return requestOption(func(o *RequestOptions) { o.Verify = fn })
}

// ExpectMissing overrides the response expected after an exercise has destroyed the resource.
func ExpectMissing(e Expect) RequestOption {
	return requestOption(func(o *RequestOptions) { o.ExpectMissing = opt.Some(e) })
}

// expectation is, in order of precedence: an explicit Expects, success for an AJAX request, or
// the default of the verb.
func (o RequestOptions) expectation(verbDefault Expect) Expect {
	ajaxDefault := opt.None[Expect]()
	if o.ViaAJAX {
		ajaxDefault = opt.Some(ExpectSuccess)
	}
	return o.Expects.Or(ajaxDefault).OrElse(verbDefault)
}

func (o RequestOptions) mode() string {
	return helpers.IfElse(o.ViaAJAX, "AJAX ", "")
}

// callArgs is the positional argument list of a DSL call, split by type. Params, and plain
// string-keyed maps, are parameters.
type callArgs struct {
	ids     []any
	params  []Params
	options []RequestOption
}

func splitArgs(args []any) callArgs {
	var ret callArgs
	for _, arg := range args {
		switch a := arg.(type) {
		case RequestOption:
			ret.options = append(ret.options, a)
		case Params:
			ret.params = append(ret.params, a)
		case map[string]any:
			ret.params = append(ret.params, Params(a))
		case map[string]string:
			p, _ := asParams(a)
			ret.params = append(ret.params, p)
		default:
			ret.ids = append(ret.ids, a)
		}
	}
	return ret
}

func (s *Session) requestOptions(c callArgs) RequestOptions {
	helpers.MarkHelper(s.t)
	var o RequestOptions
	if len(c.params) > 0 {
		o.Params = c.params[0]
	}
	if err := helpers.ApplyOptions(&o, c.options...); err != nil {
		helpers.Failf(s.t, "invalid request options: %s", err)
	}
	return o
}
