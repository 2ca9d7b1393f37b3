// Package respond formats success and error responses in JSON, XML, YAML,
// and HTML.
//
// Every adapter implements [Adapter]. Render wraps a payload in a success
// response and Error wraps an error payload in an error response:
//
//	a := respond.NewJSON(respond.Config{})
//	out, err := a.Render(ctx, map[string]any{"id": 7})
//	// out is respond.Envelope{Result: "success", Status: 200, Data: ...}
//
// # Envelopes
//
// JSON and YAML produce an [Envelope]. Success envelopes carry
// result "success" and status 200; error envelopes carry result "error",
// status 500, and the payload under data.error. Error values are reduced
// to an [ErrorDetail] holding their message.
//
// # Custom Formatting
//
// Set [Config.FormatRender] or [Config.FormatError], or pass
// [WithFormatRender] or [WithFormatError] on a single call, to replace the
// built-in formatting. Call options win over configuration.
//
// # HTTP Responses
//
// Attach a response with [WithHTTP]. The result is written with status 200
// for Render and 500 for Error, or the status of a returned envelope. JSON
// switches to JSONP when the request has a "callback" query parameter. A
// failing Render with an attached response answers with the adapter's
// error response instead. Use [WithSkipResponse] to format without
// writing.
//
// # XML
//
// [XMLAdapter] converts the envelope into a document under a root tag set
// with [Config.XMLRoot] or [WithXMLRoot]. [XMLConfig] controls the
// declaration and indentation. Documents list result, status and data in
// that order. Map keys must be valid element names; anything else fails
// with [ErrInvalidXMLName]. Text is escaped without touching mxj's global
// escaping setting. Skip conversion to get the input back.
//
// # HTML
//
// [HTMLAdapter] looks a view up in a fixed order of directories (see
// [Lookup]) and renders the first template file that exists with an
// [Engine]. The default engine is [Pongo2Engine]; [GoTemplateEngine] uses
// html/template. When no candidate exists the view name itself is used as
// the path. [Resolver] implements the search and can be used on its own:
//
//	path := respond.FindView("views/home.tpl", []string{
//		"themes/dark/views/home.tpl",
//		"views/home.tpl",
//	})
//
// # Registry
//
// [Create] builds an adapter by name from a settings map, decoding it into
// a [Config]:
//
//	a, err := respond.Create(map[string]any{"adapter": "xml", "xml_root": "example"})
//
// The "engine" key accepts an [Engine] value or a name understood by
// [ParseEngine], such as "gotemplate".
//
// Register custom adapters with [Register].
//
// # Asynchronous Calls
//
// [RenderAsync] and [ErrorAsync] return a [Future]. Use [Future.Await] to
// block for the result or [Future.Then] to receive it in a callback.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrUnknownAdapter] — no adapter registered under a name
//   - [ErrDuplicateAdapter] — name already registered
//   - [ErrInvalidAdapter] — constructor missing or returned nil
//   - [ErrMissingView] — HTML render without a view name
//   - [ErrMissingXMLRoot] — XML conversion without a root tag
//   - [ErrInvalidXMLName] — root tag or map key is not a valid element name
//   - [ErrInvalidTemplate] — template text failed to parse
//   - [ErrUnknownEngine] — engine name not recognized by [ParseEngine]
//   - [ErrPanic] — a formatter or async computation panicked
package respond
