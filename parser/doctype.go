package parser

import "strings"

// Legacy DOCTYPE classification. The public identifier prefixes below all
// date from pre-HTML5 DTDs; a document naming one of them is rendered in
// quirks mode. Identifiers compare ASCII case-insensitively.

var quirkyPublicIDPrefixes = []string{
	"+//Silmaril//dtd html Pro v0r11 19970101//",
	"-//AS//DTD HTML 3.0 asWedit + extensions//",
	"-//AdvaSoft Ltd//DTD HTML 3.0 asWedit + extensions//",
	"-//IETF//DTD HTML 2.0 Level 1//",
	"-//IETF//DTD HTML 2.0 Level 2//",
	"-//IETF//DTD HTML 2.0 Strict Level 1//",
	"-//IETF//DTD HTML 2.0 Strict Level 2//",
	"-//IETF//DTD HTML 2.0 Strict//",
	"-//IETF//DTD HTML 2.0//",
	"-//IETF//DTD HTML 2.1E//",
	"-//IETF//DTD HTML 3.0//",
	"-//IETF//DTD HTML 3.2 Final//",
	"-//IETF//DTD HTML 3.2//",
	"-//IETF//DTD HTML 3//",
	"-//IETF//DTD HTML Level 0//",
	"-//IETF//DTD HTML Level 1//",
	"-//IETF//DTD HTML Level 2//",
	"-//IETF//DTD HTML Level 3//",
	"-//IETF//DTD HTML Strict Level 0//",
	"-//IETF//DTD HTML Strict Level 1//",
	"-//IETF//DTD HTML Strict Level 2//",
	"-//IETF//DTD HTML Strict Level 3//",
	"-//IETF//DTD HTML Strict//",
	"-//IETF//DTD HTML//",
	"-//Metrius//DTD Metrius Presentational//",
	"-//Microsoft//DTD Internet Explorer 2.0 HTML Strict//",
	"-//Microsoft//DTD Internet Explorer 2.0 HTML//",
	"-//Microsoft//DTD Internet Explorer 2.0 Tables//",
	"-//Microsoft//DTD Internet Explorer 3.0 HTML Strict//",
	"-//Microsoft//DTD Internet Explorer 3.0 HTML//",
	"-//Microsoft//DTD Internet Explorer 3.0 Tables//",
	"-//Netscape Comm. Corp.//DTD HTML//",
	"-//Netscape Comm. Corp.//DTD Strict HTML//",
	"-//O'Reilly and Associates//DTD HTML 2.0//",
	"-//O'Reilly and Associates//DTD HTML Extended 1.0//",
	"-//O'Reilly and Associates//DTD HTML Extended Relaxed 1.0//",
	"-//SQ//DTD HTML 2.0 HoTMetaL + extensions//",
	"-//SoftQuad Software//DTD HoTMetaL PRO 6.0::19990601::extensions to HTML 4.0//",
	"-//SoftQuad//DTD HoTMetaL PRO 4.0::19971010::extensions to HTML 4.0//",
	"-//Spyglass//DTD HTML 2.0 Extended//",
	"-//Sun Microsystems Corp.//DTD HotJava HTML//",
	"-//Sun Microsystems Corp.//DTD HotJava Strict HTML//",
	"-//W3C//DTD HTML 3 1995-03-24//",
	"-//W3C//DTD HTML 3.2 Draft//",
	"-//W3C//DTD HTML 3.2 Final//",
	"-//W3C//DTD HTML 3.2//",
	"-//W3C//DTD HTML 3.2S Draft//",
	"-//W3C//DTD HTML 4.0 Frameset//",
	"-//W3C//DTD HTML 4.0 Transitional//",
	"-//W3C//DTD HTML Experimental 19960712//",
	"-//W3C//DTD HTML Experimental 970421//",
	"-//W3C//DTD W3 HTML//",
	"-//W3O//DTD W3 HTML 3.0//",
	"-//WebTechs//DTD Mozilla HTML 2.0//",
	"-//WebTechs//DTD Mozilla HTML//",
}

var quirkyPublicIDs = []string{
	"-//W3O//DTD W3 HTML Strict 3.0//EN//",
	"-/W3C/DTD HTML 4.0 Transitional/EN",
	"HTML",
}

const quirkySystemID = "http://www.ibm.com/data/dtd/v11/ibmxhtml1-transitional.dtd"

const (
	html401FramesetPrefix     = "-//W3C//DTD HTML 4.01 Frameset//"
	html401TransitionalPrefix = "-//W3C//DTD HTML 4.01 Transitional//"
	xhtml1FramesetPrefix      = "-//W3C//DTD XHTML 1.0 Frameset//"
	xhtml1TransitionalPrefix  = "-//W3C//DTD XHTML 1.0 Transitional//"
)

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func isForceQuirksDoctype(t *Token) bool {
	if t.ForceQuirks || t.TagName != "html" {
		return true
	}
	for _, id := range quirkyPublicIDs {
		if strings.EqualFold(t.PublicIdentifier, id) {
			return true
		}
	}
	if strings.EqualFold(t.SystemIdentifier, quirkySystemID) {
		return true
	}
	for _, prefix := range quirkyPublicIDPrefixes {
		if hasPrefixFold(t.PublicIdentifier, prefix) {
			return true
		}
	}
	if t.SystemIdentifier == missing {
		if hasPrefixFold(t.PublicIdentifier, html401FramesetPrefix) ||
			hasPrefixFold(t.PublicIdentifier, html401TransitionalPrefix) {
			return true
		}
	}
	return false
}

func isLimitedQuirksDoctype(t *Token) bool {
	if hasPrefixFold(t.PublicIdentifier, xhtml1FramesetPrefix) ||
		hasPrefixFold(t.PublicIdentifier, xhtml1TransitionalPrefix) {
		return true
	}
	if t.SystemIdentifier != missing {
		if hasPrefixFold(t.PublicIdentifier, html401FramesetPrefix) ||
			hasPrefixFold(t.PublicIdentifier, html401TransitionalPrefix) {
			return true
		}
	}
	return false
}

// quirksModeFromDoctype classifies a DOCTYPE token into the document
// rendering mode.
func quirksModeFromDoctype(t *Token) quirksMode {
	if isForceQuirksDoctype(t) {
		return quirks
	}
	if isLimitedQuirksDoctype(t) {
		return limitedQuirks
	}
	return noQuirks
}
