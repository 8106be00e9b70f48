package browser

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
)

type element struct {
	el   *rod.Element
	pace *pacer
}

var _ interfaces.Element = (*element)(nil)

func (e *element) Click(ctx context.Context) error {
	if err := e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return goerr.Wrap(err, "click failed")
	}
	e.pace.slowMo(ctx)
	return nil
}

func (e *element) Value(ctx context.Context) (string, error) {
	v, err := e.el.Context(ctx).Property("value")
	if err != nil {
		return "", goerr.Wrap(err, "failed to read value property")
	}
	return v.Str(), nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	if err != nil {
		return "", goerr.Wrap(err, "failed to read element text")
	}
	return text, nil
}

// Fill replaces the element content in one shot. An empty text clears the
// field by selecting everything and deleting it.
func (e *element) Fill(ctx context.Context, text string) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return goerr.Wrap(err, "failed to select existing text")
	}
	if text == "" {
		if err := el.Type(input.Backspace); err != nil {
			return goerr.Wrap(err, "failed to clear field")
		}
	} else {
		if err := el.Input(text); err != nil {
			return goerr.Wrap(err, "failed to input text")
		}
	}
	e.pace.slowMo(ctx)
	return nil
}

// Type focuses the element and enters the text one character at a time with
// jittered delays, the way a person would.
func (e *element) Type(ctx context.Context, text string) error {
	el := e.el.Context(ctx)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return goerr.Wrap(err, "failed to focus element")
	}
	e.pace.focus(ctx)

	for _, r := range text {
		if err := el.Input(string(r)); err != nil {
			return goerr.Wrap(err, "typing interrupted")
		}
		e.pace.keystroke(ctx)
	}

	e.pace.rest(ctx)
	return nil
}

func (e *element) Visible(ctx context.Context) (bool, error) {
	visible, err := e.el.Context(ctx).Visible()
	if err != nil {
		return false, goerr.Wrap(err, "visibility check failed")
	}
	return visible, nil
}
