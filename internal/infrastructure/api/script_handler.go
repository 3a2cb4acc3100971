package api

import (
	"bytes"
	"embed"
	"net/http"
	"strconv"
	"text/template"

	"preorder-shopify-layer/internal/application"

	"github.com/rs/zerolog"
)

//go:embed templates/storefront.js.tmpl
var templateFS embed.FS

var storefrontTmpl = template.Must(template.ParseFS(templateFS, "templates/storefront.js.tmpl"))

// ScriptHandler serves the storefront injector script installed as a
// Shopify ScriptTag. The script is rendered per shop so it carries that
// shop's button and badge texts.
type ScriptHandler struct {
	settings *application.SettingsService
	appURL   string
	logger   zerolog.Logger
}

// NewScriptHandler creates a new storefront script handler.
func NewScriptHandler(settings *application.SettingsService, appURL string, logger zerolog.Logger) *ScriptHandler {
	return &ScriptHandler{settings: settings, appURL: appURL, logger: logger}
}

type scriptData struct {
	AppURL     string
	ButtonText string
	BadgeText  string
	NoteText   string
}

// Serve handles GET /script.js?shop={shop}.
func (h *ScriptHandler) Serve(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")

	settings, err := h.settings.Get(r.Context(), shop)
	if err != nil {
		// The storefront must not break on our failures; serve an empty
		// script instead of an error page.
		h.logger.Warn().Err(err).Str("shop", shop).Msg("Settings lookup failed for storefront script")
		w.Header().Set("Content-Type", "application/javascript")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		return
	}

	// Values land inside the script as JS string literals.
	data := scriptData{
		AppURL:     strconv.Quote(h.appURL),
		ButtonText: strconv.Quote(settings.ButtonText),
		BadgeText:  strconv.Quote(settings.BadgeText),
		NoteText:   strconv.Quote(settings.NoteText),
	}

	var buf bytes.Buffer
	if err := storefrontTmpl.Execute(&buf, data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render storefront script")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
