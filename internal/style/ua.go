package style

import "github.com/ehrlich-b/browsercore/internal/css"

// uaDefaultsCSS is this engine's user-agent stylesheet: the small set of
// default `display` (and a few box-model) rules browsers ship so that
// ordinary HTML lays out sensibly without an author stylesheet, per spec
// §4.4's origin-ordering design (UA rules sit at the bottom of the
// cascade).
const uaDefaultsCSS = `
html, body, div, section, article, header, footer, nav, main, aside,
p, h1, h2, h3, h4, h5, h6, ul, ol, form, figure, figcaption, blockquote,
pre, address, fieldset, dl, dd, hr, thead, tbody, tfoot, caption {
  display: block;
}
li { display: list-item; }
span, a, b, i, em, strong, small, code, label, abbr, sub, sup, u, s,
cite, q, mark, time, kbd, samp, var { display: inline; }
img, input, select, button, textarea { display: inline-block; }
table { display: table; border-collapse: separate; }
tr { display: table-row; }
td, th { display: table-cell; }
h1 { font-size: 32px; font-weight: bold; margin-top: 21px; margin-bottom: 21px; }
h2 { font-size: 24px; font-weight: bold; margin-top: 20px; margin-bottom: 20px; }
h3 { font-size: 19px; font-weight: bold; margin-top: 19px; margin-bottom: 19px; }
p { margin-top: 16px; margin-bottom: 16px; }
ul, ol { margin-top: 16px; margin-bottom: 16px; padding-left: 40px; }
b, strong { font-weight: bold; }
a { color: blue; }
hr { border-top-style: solid; border-top-width: 1px; }
`

var uaStylesheet *css.Stylesheet

// UserAgentStylesheet returns this engine's default stylesheet, parsed
// once and reused for every document, per spec §4.4.
func UserAgentStylesheet() *css.Stylesheet {
	if uaStylesheet == nil {
		uaStylesheet = css.Parse(uaDefaultsCSS, css.OriginUserAgent)
	}
	return uaStylesheet
}
