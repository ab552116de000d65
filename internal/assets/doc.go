// Package assets serves the files folio renders with: the CV stylesheet,
// the CV layout template and the API reference.
//
// Built-in copies are embedded in the binary. A Resolver created with an
// override directory reads that directory first, laid out as
//
//	{dir}/styles/{name}.css
//	{dir}/templates/{name}.html
//	{dir}/docs/{name}.md
//
// and falls back to the built-in copy when a file is absent. Override reads
// go through os.OpenInRoot, so neither ".." nor symlinks leave the directory.
package assets
