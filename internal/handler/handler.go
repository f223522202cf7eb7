package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmorgan81/brandbot/internal/credential"
	"github.com/dmorgan81/brandbot/internal/log"
	"github.com/dmorgan81/brandbot/internal/prompt"
	"github.com/dmorgan81/brandbot/internal/session"
	"github.com/dmorgan81/brandbot/internal/store"
	"github.com/samber/do"
	"github.com/samber/lo"
)

const (
	ActionGenerate      = "generate"
	ActionRegenerate    = "regenerate"
	ActionHistory       = "history"
	ActionSetCredential = "set_credential"
	ActionDownload      = "download"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrImageNotFound = errors.New("image not found")
)

type Input struct {
	Action     string         `json:"action,omitempty"`
	Options    prompt.Options `json:"options"`
	Credential string         `json:"credential,omitempty"`
	ID         string         `json:"id,omitempty"`
}

type Image struct {
	ID          string         `json:"id"`
	Prompt      string         `json:"prompt"`
	Options     prompt.Options `json:"options"`
	CreatedAt   time.Time      `json:"createdAt"`
	ContentType string         `json:"contentType"`
	Bytes       int            `json:"bytes"`
	URL         string         `json:"url,omitempty"`
	DataURL     string         `json:"dataUrl,omitempty"`
}

func toImage(img session.Image) Image {
	return Image{
		ID:          img.ID,
		Prompt:      img.Prompt,
		Options:     img.Options,
		CreatedAt:   img.CreatedAt,
		ContentType: img.Ref.ContentType(),
		Bytes:       img.Ref.Len(),
	}
}

type Output struct {
	Image      *Image  `json:"image,omitempty"`
	History    []Image `json:"history,omitempty"`
	File       string  `json:"file,omitempty"`
	Generating bool    `json:"generating"`
}

type Handler struct {
	session     *session.Session
	randomizer  *prompt.Randomizer
	credentials credential.Store
	downloader  *store.Downloader
	publisher   *Publisher
}

func NewHandler(i *do.Injector) (*Handler, error) {
	h := &Handler{
		session:     do.MustInvoke[*session.Session](i),
		randomizer:  do.MustInvoke[*prompt.Randomizer](i),
		credentials: do.MustInvoke[credential.Store](i),
		downloader:  do.MustInvoke[*store.Downloader](i),
	}

	// Publishing is optional; without a bucket images are returned inline.
	if bucket, _ := do.InvokeNamed[string](i, "bucket"); bucket != "" {
		publisher, err := do.Invoke[*Publisher](i)
		if err != nil {
			return nil, fmt.Errorf("configuring publisher for bucket %s: %w", bucket, err)
		}
		h.publisher = publisher
	}
	return h, nil
}

func (h *Handler) Handle(ctx context.Context, input Input) (Output, error) {
	action := lo.Ternary(input.Action != "", input.Action, ActionGenerate)
	log := log.FromContextOrDiscard(ctx).WithGroup("Handler").With("action", action)
	log.Info("handling lambda invocation")

	var (
		out Output
		err error
	)
	switch action {
	case ActionGenerate:
		out, err = h.generate(ctx, input.Options)
	case ActionRegenerate:
		out, err = h.regenerate(ctx)
	case ActionHistory:
		out = h.history()
	case ActionSetCredential:
		err = h.credentials.Set(ctx, input.Credential)
	case ActionDownload:
		out, err = h.download(ctx, input.ID)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if err != nil {
		log.Error("invocation failed", "error", err)
		return Output{}, err
	}

	out.Generating = h.session.State().IsGenerating
	return out, nil
}

func (h *Handler) generate(ctx context.Context, opts prompt.Options) (Output, error) {
	img, err := h.session.Request(ctx, h.randomizer.Randomize(ctx, opts))
	if err != nil {
		return Output{}, err
	}
	return h.publish(ctx, img)
}

func (h *Handler) regenerate(ctx context.Context) (Output, error) {
	img, err := h.session.Regenerate(ctx)
	if err != nil {
		return Output{}, err
	}
	return h.publish(ctx, img)
}

func (h *Handler) publish(ctx context.Context, img session.Image) (Output, error) {
	summary := toImage(img)
	if h.publisher == nil {
		summary.DataURL = img.Ref.DataURL()
		return Output{Image: &summary}, nil
	}

	url, err := h.publisher.Publish(ctx, img)
	if err != nil {
		return Output{}, fmt.Errorf("publishing image %s: %w", img.ID, err)
	}
	summary.URL = url
	return Output{Image: &summary}, nil
}

func (h *Handler) history() Output {
	state := h.session.State()
	out := Output{History: lo.Map(state.History, func(img session.Image, _ int) Image {
		return toImage(img)
	})}
	if state.Current != nil {
		current := toImage(*state.Current)
		out.Image = &current
	}
	return out
}

func (h *Handler) download(ctx context.Context, id string) (Output, error) {
	var img session.Image
	if id == "" {
		current := h.session.State().Current
		if current == nil {
			return Output{}, session.ErrNoCurrentImage
		}
		img = *current
	} else {
		found, ok := h.session.Lookup(id)
		if !ok {
			return Output{}, fmt.Errorf("%w: %s", ErrImageNotFound, id)
		}
		img = found
	}

	name, err := h.downloader.Download(ctx, img)
	if err != nil {
		return Output{}, err
	}
	summary := toImage(img)
	summary.DataURL = img.Ref.DataURL()
	return Output{Image: &summary, File: name}, nil
}
