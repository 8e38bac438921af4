// Package item defines the capability contract every navigable entry
// implements: resolve display text, execute an action, optionally access
// type-scoped shared cached data.
package item

import (
	"context"
	"time"

	"go.uber.org/zap"

	"simplemenu/internal/config"
	"simplemenu/internal/errors"
	exe "simplemenu/internal/exec"
	"simplemenu/internal/logging"
	"simplemenu/internal/token"
)

// Item is a navigable entry. Every instance is freshly constructed on each
// menu redraw; no state survives across redraws except the identifier string
// carried by the menu loop.
type Item interface {
	// Variant is the discriminant name of the concrete implementation.
	Variant() string

	// ProduceText resolves the display text, possibly from live external
	// state. An empty resulting text marks the item invisible.
	ProduceText(ctx context.Context) error

	// Execute performs the item's action. Menus drive a nested navigation
	// loop here.
	Execute(ctx context.Context) error

	// Text returns the resolved display text.
	Text() *token.ItemText

	// Identifier is "variant:raw-value", used to re-highlight the previously
	// selected row across redraws. Not guaranteed unique among siblings that
	// share variant and value.
	Identifier() string

	// Visible reports whether the item renders, derived from Text().Text.
	Visible() bool
}

// NewFunc resolves a discriminant name and raw value into an Item. It is the
// registry's constructor dispatch, injected to keep variant packages
// decoupled from each other.
type NewFunc func(variant, value string) (Item, error)

// Deps carries everything item construction needs: the immutable
// configuration, the per-navigation-step shared cache, the process runner and
// the registry dispatch.
type Deps struct {
	Config *config.Config
	Cache  *Cache
	Runner *exe.Runner
	New    NewFunc
}

// Base carries the common Item state. Concrete variants embed it and override
// ProduceText/Execute.
type Base struct {
	Deps *Deps

	// Texts is the resolved display text, pre-populated from the decoded
	// value prefix.
	Texts token.ItemText

	// Value is the remainder of the specification after decoding.
	Value string

	// Raw is the specification value as received.
	Raw string

	// SharedInit computes the variant's shared data. Variants that call
	// SharedData must set it; the default is a fatal NotImplemented error.
	SharedInit func(ctx context.Context) (any, error)

	variant string
}

// NewBase decodes value with the level-0 separator and returns the common
// item state.
func NewBase(variant string, deps *Deps, value string) Base {
	texts, remainder := token.Decode(value, deps.Config.Delimiter())
	return Base{
		Deps:    deps,
		Texts:   texts,
		Value:   remainder,
		Raw:     value,
		variant: variant,
	}
}

func (b *Base) Variant() string { return b.variant }

func (b *Base) Text() *token.ItemText { return &b.Texts }

func (b *Base) Identifier() string { return b.variant + ":" + b.Raw }

func (b *Base) Visible() bool { return b.Texts.Text != "" }

// Delimiter returns the level-0 token separator.
func (b *Base) Delimiter() string { return b.Deps.Config.Delimiter() }

// ProduceText by default leaves the decoded text untouched; items with no
// structured prefix stay raw and invisible.
func (b *Base) ProduceText(ctx context.Context) error { return nil }

// Execute by default is a programming error: the variant forgot to override.
func (b *Base) Execute(ctx context.Context) error {
	return errors.NotImplementedError(b.variant, "Execute")
}

// SharedData returns the variant's shared cached value, computing it through
// SharedInit at most once per navigation step even under concurrent access.
func (b *Base) SharedData(ctx context.Context) (any, error) {
	if b.SharedInit == nil {
		return nil, errors.NotImplementedError(b.variant, "SharedInit")
	}
	return b.Deps.Cache.Get(b.variant, func() (any, error) {
		return b.SharedInit(ctx)
	})
}

// ResolveText runs it.ProduceText and logs the resolved fields with the
// elapsed time.
func ResolveText(ctx context.Context, it Item) error {
	start := time.Now()
	if err := it.ProduceText(ctx); err != nil {
		return err
	}
	texts := it.Text()
	logging.L().Debug("resolved item text",
		zap.String("variant", it.Variant()),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("type", string(texts.Type)),
		zap.String("category", texts.Category),
		zap.String("subcategory", texts.Subcategory),
		zap.String("status", texts.Status),
		zap.String("text", texts.Text))
	return nil
}
