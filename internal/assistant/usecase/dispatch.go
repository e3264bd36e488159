package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"personal-assistant/internal/model"
	"personal-assistant/pkg/datemath"
)

// actionCtx is the per-exchange state shared by every handler.
type actionCtx struct {
	user   model.User
	loc    *time.Location
	parser *datemath.Parser
	now    time.Time
}

// outcome is what a handler reports back. A non-empty answer replaces the
// model's reply.
type outcome struct {
	status model.ActionStatus
	data   map[string]any
	answer string
	err    error
}

type handlerFunc func(ctx context.Context, ac actionCtx, data map[string]any) outcome

func done(data map[string]any) outcome {
	return outcome{status: model.ActionStatusOK, data: data}
}

func answered(text string, data map[string]any) outcome {
	return outcome{status: model.ActionStatusOK, data: data, answer: text}
}

func skipped(format string, args ...any) outcome {
	return outcome{status: model.ActionStatusSkipped, err: fmt.Errorf(format, args...)}
}

func failed(err error) outcome {
	return outcome{status: model.ActionStatusFailed, err: err}
}

// unavailable reports a query collaborator failure with an apologetic reply.
func unavailable(what string, err error) outcome {
	return outcome{
		status: model.ActionStatusFailed,
		err:    err,
		answer: fmt.Sprintf("Sorry, I couldn't get the %s: %v", what, err),
	}
}

// dispatch runs actions strictly in order. A failing or panicking action
// never stops the ones after it. Answers from query actions replace reply.
func (uc *implUseCase) dispatch(ctx context.Context, ac actionCtx, actions []model.Action, reply string) (string, []model.ActionResult) {
	results := make([]model.ActionResult, 0, len(actions))
	var answers []string

	for _, act := range actions {
		handler, ok := uc.handlers[act.Type]
		if !ok {
			uc.l.Warnf(ctx, "assistant.dispatch: unknown action %q ignored", act.Type)
			results = append(results, model.ActionResult{Type: act.Type, Status: model.ActionStatusIgnored})
			continue
		}

		out := uc.runHandler(ctx, handler, ac, act)
		res := model.ActionResult{Type: act.Type, Status: out.status, Data: out.data}
		if out.err != nil {
			res.Error = out.err.Error()
			uc.l.Warnf(ctx, "assistant.dispatch: %s %s: %v", act.Type, out.status, out.err)
		}
		if out.answer != "" {
			answers = append(answers, out.answer)
		}
		results = append(results, res)
	}

	if len(answers) > 0 {
		reply = strings.Join(answers, "\n\n")
	}
	return reply, results
}

func (uc *implUseCase) runHandler(ctx context.Context, handler handlerFunc, ac actionCtx, act model.Action) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			uc.l.Errorf(ctx, "assistant.dispatch: panic in %s: %v", act.Type, r)
			out = failed(fmt.Errorf("panic: %v", r))
		}
	}()

	data := act.Data
	if data == nil {
		data = map[string]any{}
	}
	return handler(ctx, ac, data)
}
