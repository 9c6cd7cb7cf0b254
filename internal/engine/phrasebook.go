package engine

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-age/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const phrasebookFile = "locales/active.en.json"

// phrases is loaded once and only read afterwards, so calls may run concurrently.
var phrases = loadPhrasebook()

// phrasebook renders the human strings of AgeInsights.
// Labels are English only; the bundle exists for CLDR plural rules.
type phrasebook struct {
	localizer *i18n.Localizer
}

func loadPhrasebook() *phrasebook {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	if _, err := bundle.LoadMessageFileFS(localeFS, phrasebookFile); err != nil {
		slog.Error(config.ErrPhrasebookLoad,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyFile, phrasebookFile,
			config.LogKeyError, err,
		)
		return &phrasebook{}
	}
	return &phrasebook{localizer: i18n.NewLocalizer(bundle, config.PhrasebookLang)}
}

// localize returns the rendered message, or fallback when the bundle cannot serve it.
func (p *phrasebook) localize(lc *i18n.LocalizeConfig, fallback string) string {
	if p.localizer == nil {
		return fallback
	}
	msg, err := p.localizer.Localize(lc)
	if err != nil {
		return fallback
	}
	return msg
}

func (p *phrasebook) today() string {
	return p.localize(&i18n.LocalizeConfig{MessageID: config.PKeyToday}, config.FallbackToday)
}

func (p *phrasebook) laterToday() string {
	return p.localize(&i18n.LocalizeConfig{MessageID: config.PKeyLaterToday}, config.FallbackLaterToday)
}

func (p *phrasebook) reached() string {
	return p.localize(&i18n.LocalizeConfig{MessageID: config.PKeyReached}, config.FallbackReached)
}

func (p *phrasebook) inDays(n int) string {
	fallback := fmt.Sprintf(config.FallbackInDays, n)
	if n == 1 {
		fallback = fmt.Sprintf(config.FallbackInDay, n)
	}
	return p.localize(&i18n.LocalizeConfig{
		MessageID:    config.PKeyInDays,
		PluralCount:  n,
		TemplateData: map[string]any{"Count": n},
	}, fallback)
}

func (p *phrasebook) remaining(years string, expectancy int) string {
	return p.localize(&i18n.LocalizeConfig{
		MessageID:    config.PKeyRemaining,
		TemplateData: map[string]any{"Remaining": years, "Expectancy": expectancy},
	}, fmt.Sprintf(config.FallbackRemaining, years, expectancy))
}

func (p *phrasebook) surpassed(expectancy int) string {
	return p.localize(&i18n.LocalizeConfig{
		MessageID:    config.PKeySurpassed,
		TemplateData: map[string]any{"Expectancy": expectancy},
	}, fmt.Sprintf(config.FallbackSurpassed, expectancy))
}

// countdown renders a day distance the way birthdays and milestones share.
func (p *phrasebook) countdown(days int) string {
	if days == 0 {
		return p.today()
	}
	return p.inDays(days)
}
