package controllerImp

import (
	"context"
	"errors"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/advice/controller"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/advice/service"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/ai"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
)

type AdviceCtrl struct{ s service.AdviceService }

func New(s service.AdviceService) *AdviceCtrl { return &AdviceCtrl{s: s} }

var _ controller.AdviceController = (*AdviceCtrl)(nil)

func (h *AdviceCtrl) Register(r *rpc.Router) {
	g := r.Group("advice")
	g.Mutation("askAI", "advice.askAI", rpc.Bind(h.AskAI))
	g.Query("getAdviceHistory", "advice.getAdviceHistory", rpc.Bind(h.GetAdviceHistory))
	g.Mutation("submitFeedback", "advice.submitFeedback", rpc.Bind(h.SubmitFeedback))
}

type AskInput struct {
	Query    string `json:"query"`
	UserID   string `json:"userId"`
	Language string `json:"language"`
}

func (in *AskInput) ApplyDefaults() {
	if in.Language == "" {
		in.Language = "en"
	}
}

type HistoryInput struct {
	UserID string `json:"userId"`
	Limit  int    `json:"limit"`
}

func (in *HistoryInput) ApplyDefaults() {
	if in.Limit == 0 {
		in.Limit = 20
	}
}

type FeedbackInput struct {
	AdviceID string `json:"adviceId"`
	Feedback string `json:"feedback"`
}

type History struct {
	Advice []entities.Advice `json:"advice"`
}

type Ack struct {
	Success bool `json:"success"`
}

// AskAI attributes the advice to the given userId, else the caller.
func (h *AdviceCtrl) AskAI(ctx context.Context, ac auth.Context, in AskInput) (*entities.Advice, error) {
	uid := in.UserID
	if uid == "" && ac.IsAuthenticated {
		uid = ac.UserID
	}
	a, err := h.s.Ask(ctx, service.Question{Query: in.Query, UserID: uid, Language: in.Language})
	if errors.Is(err, ai.ErrUnavailable) {
		return nil, rpc.Wrap(rpc.CodeBadGateway, "The advisory model could not answer right now", err)
	}
	return a, err
}

// GetAdviceHistory serves the shared anonymous history to anyone; any other
// history is readable only by the user it is attributed to.
func (h *AdviceCtrl) GetAdviceHistory(ctx context.Context, ac auth.Context, in HistoryInput) (*History, error) {
	if in.UserID != service.AnonymousUser {
		if !ac.IsAuthenticated {
			return nil, rpc.NewError(rpc.CodeUnauthorized, "Sign in to read your advice history")
		}
		if ac.UserID != in.UserID {
			return nil, rpc.NewError(rpc.CodeForbidden, "Advice history belongs to another user")
		}
	}
	as, err := h.s.History(ctx, in.UserID, in.Limit)
	if err != nil {
		return nil, err
	}
	return &History{Advice: as}, nil
}

func (h *AdviceCtrl) SubmitFeedback(ctx context.Context, _ auth.Context, in FeedbackInput) (*Ack, error) {
	if err := h.s.Feedback(ctx, in.AdviceID, in.Feedback); err != nil {
		if e, _ := rpc.FromError(err); e.Code == rpc.CodeNotFound {
			return nil, rpc.Wrap(rpc.CodeNotFound, "Advice not found", err)
		}
		return nil, err
	}
	return &Ack{Success: true}, nil
}
