// Package folio renders ordered CV sections into a paginated A4 PDF using
// headless Chrome.
//
// # Quick Start
//
// Create a converter, convert sections, and close when done:
//
//	conv, err := folio.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, folio.Input{
//	    PersonalInfo: folio.PersonalInfo{Name: "Ada Lovelace", Title: "Engineer"},
//	    Sections: []folio.Section{
//	        {ID: "about", Title: "About", Order: 0, Content: folio.LegacyText("Hello")},
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("cv.pdf", result.PDF, 0644)
//
// The result contains both the PDF bytes (result.PDF) and the intermediate
// HTML (result.HTML) for debugging. Use Input.HTMLOnly to skip PDF generation.
//
// # Conversion Pipeline
//
//  1. Sections are sorted by Order (stable, ties keep input order).
//  2. Each section gets an estimated height (EstimateHeight).
//  3. Sections are packed greedily onto pages of DefaultPageBudget units
//     (Paginate). A section is never split across pages.
//  4. Pages are assembled into one HTML document (Assemble): the personal
//     header on page 1, a "Page N / total" indicator on every page.
//  5. The document is printed to A4 with 20mm margins (go-rod), and the
//     rendered page count is read back from the PDF.
//
// Steps 1 to 4 are pure and usable on their own:
//
//	pages := folio.Layout(sections, folio.DefaultPageBudget)
//	html, err := folio.Assemble(pages, info, folio.AssembleOptions{DarkMode: true})
//
// # Configuration
//
//	conv, err := folio.NewConverter(
//	    folio.WithTimeout(2 * time.Minute),
//	    folio.WithPageBudget(240),
//	    folio.WithAssetPath("/path/to/custom/assets"),
//	)
//
// # Parallel Processing
//
// For servers, use ConverterPool to manage multiple browser instances:
//
//	pool := folio.NewConverterPool(folio.ResolvePoolSize(0))
//	defer pool.Close()
//
//	result, err := pool.Convert(ctx, input)
//
// # Custom Assets
//
// The layout template and stylesheet can be overridden from a directory:
//
//	assets/
//	├── styles/
//	│   └── cv.css
//	└── templates/
//	    └── cv.html
//
// Missing files fall back to the embedded ones.
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=true to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package folio
