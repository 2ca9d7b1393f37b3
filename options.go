package respond

import (
	"io"
	"log/slog"
	"net/http"
)

// Config holds adapter construction settings. Fields carry mapstructure
// tags so a Config can be decoded from a settings map with [Create].
// Each adapter reads only the fields that concern it.
type Config struct {
	// Adapter names the adapter to build. Used by [Registry.New].
	Adapter string `mapstructure:"adapter"`

	// FormatRender and FormatError replace the built-in formatting.
	FormatRender FormatFunc `mapstructure:"format_render"`
	FormatError  FormatFunc `mapstructure:"format_error"`

	// Indent sets the indentation of JSON and YAML output.
	Indent string `mapstructure:"indent"`

	// XML settings.
	SkipConversion bool      `mapstructure:"skip_conversion"`
	XMLRoot        string    `mapstructure:"xml_root"`
	XMLConfig      XMLConfig `mapstructure:"xml_configuration"`

	// HTML settings.
	Engine        Engine         `mapstructure:"engine"`
	EngineConfig  map[string]any `mapstructure:"engine_configuration"`
	ExtName       string         `mapstructure:"extname"`
	ThemeName     string         `mapstructure:"themename"`
	ViewName      string         `mapstructure:"viewname"`
	FileExt       string         `mapstructure:"fileext"`
	ThemesDir     string         `mapstructure:"themes_dir"`
	ExtensionsDir string         `mapstructure:"extensions_dir"`
	ViewsDir      string         `mapstructure:"views_dir"`

	Logger *slog.Logger `mapstructure:"-"`
}

// Defaults applied by the HTML adapter.
const (
	DefaultThemeName     = "default"
	DefaultFileExt       = ".tpl"
	DefaultThemesDir     = "content/themes"
	DefaultExtensionsDir = "extensions"
	DefaultViewsDir      = "views"
	DefaultErrorView     = "home/error404"
)

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Option configures a single Render or Error call.
type Option func(*callOptions)

type callOptions struct {
	formatRender FormatFunc
	formatError  FormatFunc

	w            http.ResponseWriter
	r            *http.Request
	skipResponse bool

	skipConversion *bool
	xmlRoot        string
	xmlConfig      *XMLConfig

	viewName        string
	themeName       string
	extName         string
	fileExt         string
	dirs            []string
	engineConfig    map[string]any
	resolveFilepath bool
}

func applyOptions(opts []Option) *callOptions {
	o := &callOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// responding reports whether the result should be written to an HTTP
// response.
func (o *callOptions) responding() bool {
	return o.w != nil && !o.skipResponse
}

// WithFormatRender overrides success formatting for one call.
func WithFormatRender(fn FormatFunc) Option {
	return func(o *callOptions) { o.formatRender = fn }
}

// WithFormatError overrides error formatting for one call.
func WithFormatError(fn FormatFunc) Option {
	return func(o *callOptions) { o.formatError = fn }
}

// WithHTTP attaches an HTTP response. The formatted result is written to w.
// r may be nil; when present its "callback" query parameter switches JSON
// output to JSONP.
func WithHTTP(w http.ResponseWriter, r *http.Request) Option {
	return func(o *callOptions) {
		o.w = w
		o.r = r
	}
}

// WithSkipResponse keeps the attached HTTP response untouched.
func WithSkipResponse() Option {
	return func(o *callOptions) { o.skipResponse = true }
}

// WithSkipConversion makes the XML adapter return its input unconverted.
func WithSkipConversion(skip bool) Option {
	return func(o *callOptions) { o.skipConversion = &skip }
}

// WithXMLRoot sets the XML document root tag.
func WithXMLRoot(root string) Option {
	return func(o *callOptions) { o.xmlRoot = root }
}

// WithXMLConfig replaces the XML output settings.
func WithXMLConfig(cfg XMLConfig) Option {
	return func(o *callOptions) { o.xmlConfig = &cfg }
}

// WithViewName sets the template name looked up by the HTML adapter.
func WithViewName(name string) Option {
	return func(o *callOptions) { o.viewName = name }
}

// WithThemeName sets the theme whose views directory is searched.
func WithThemeName(name string) Option {
	return func(o *callOptions) { o.themeName = name }
}

// WithExtName sets the extension whose views directory is searched.
func WithExtName(name string) Option {
	return func(o *callOptions) { o.extName = name }
}

// WithFileExt sets the template file extension.
func WithFileExt(ext string) Option {
	return func(o *callOptions) { o.fileExt = ext }
}

// WithDirs adds directories searched before the theme, extension and
// default views directories, in the given order.
func WithDirs(dirs ...string) Option {
	return func(o *callOptions) { o.dirs = append(o.dirs, dirs...) }
}

// WithEngineConfig replaces the engine configuration for one call.
func WithEngineConfig(cfg map[string]any) Option {
	return func(o *callOptions) { o.engineConfig = cfg }
}

// WithResolveFilepath makes the HTML adapter return the resolved template
// path instead of rendering it.
func WithResolveFilepath() Option {
	return func(o *callOptions) { o.resolveFilepath = true }
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
