package parser

import (
	"github.com/paperjet/paperjet/parser/dom"
)

// specialElements is the "special" category: elements that end implied
// closures and bound the adoption agency's furthest-block search.
var specialElements = map[string]bool{
	"address": true, "applet": true, "area": true, "article": true,
	"aside": true, "base": true, "basefont": true, "bgsound": true,
	"blockquote": true, "body": true, "br": true, "button": true,
	"caption": true, "center": true, "col": true, "colgroup": true,
	"dd": true, "details": true, "dir": true, "div": true, "dl": true,
	"dt": true, "embed": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "frame": true,
	"frameset": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "head": true, "header": true, "hgroup": true,
	"hr": true, "html": true, "iframe": true, "img": true, "input": true,
	"keygen": true, "li": true, "link": true, "listing": true, "main": true,
	"marquee": true, "menu": true, "meta": true, "nav": true, "noembed": true,
	"noframes": true, "noscript": true, "object": true, "ol": true, "p": true,
	"param": true, "plaintext": true, "pre": true, "script": true,
	"section": true, "select": true, "source": true, "style": true,
	"summary": true, "table": true, "tbody": true, "td": true,
	"textarea": true, "tfoot": true, "th": true, "thead": true, "tr": true,
	"track": true, "ul": true, "wbr": true, "xmp": true,
}

func isSpecialElement(n *dom.Node) bool {
	switch n.Namespace {
	case dom.HTMLNamespace:
		return specialElements[n.Tag]
	case dom.MathMLNamespace:
		switch n.Tag {
		case "mi", "mo", "mn", "ms", "mtext", "annotation-xml":
			return true
		}
	case dom.SVGNamespace:
		switch n.Tag {
		case "foreignObject", "desc", "title":
			return true
		}
	}
	return false
}

// htmlBreakoutTags are the HTML start tags that pop the parser back out of
// foreign content.
var htmlBreakoutTags = map[string]bool{
	"b": true, "big": true, "blockquote": true, "body": true, "br": true,
	"center": true, "code": true, "dd": true, "div": true, "dl": true,
	"dt": true, "em": true, "embed": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "head": true,
	"hr": true, "i": true, "img": true, "li": true, "listing": true,
	"menu": true, "meta": true, "nobr": true, "ol": true, "p": true,
	"pre": true, "ruby": true, "s": true, "small": true, "span": true,
	"strong": true, "strike": true, "sub": true, "sup": true,
	"table": true, "tt": true, "u": true, "ul": true, "var": true,
}

// isHTMLBreakoutToken reports whether a start tag seen inside foreign
// content must be handled as HTML. <font> breaks out only when it carries a
// color, face, or size attribute.
func isHTMLBreakoutToken(t *Token) bool {
	if htmlBreakoutTags[t.TagName] {
		return true
	}
	if t.TagName != "font" {
		return false
	}
	return t.Attributes.Has("color") || t.Attributes.Has("face") || t.Attributes.Has("size")
}

func isMathMLTextIntegrationPoint(n *dom.Node) bool {
	return n.IsElement(dom.MathMLNamespace, "mi", "mo", "mn", "ms", "mtext")
}

func isHTMLIntegrationPoint(n *dom.Node) bool {
	if n.IsElement(dom.SVGNamespace, "foreignObject", "desc", "title") {
		return true
	}
	if n.IsElement(dom.MathMLNamespace, "annotation-xml") {
		enc, _ := n.Attrs.Get("encoding")
		return enc == "text/html" || enc == "application/xhtml+xml"
	}
	return false
}

// svgTagNames maps lowercased SVG tag names back to their mixed-case forms.
var svgTagNames = map[string]string{
	"altglyph":            "altGlyph",
	"altglyphdef":         "altGlyphDef",
	"altglyphitem":        "altGlyphItem",
	"animatecolor":        "animateColor",
	"animatemotion":       "animateMotion",
	"animatetransform":    "animateTransform",
	"clippath":            "clipPath",
	"feblend":             "feBlend",
	"fecolormatrix":       "feColorMatrix",
	"fecomponenttransfer": "feComponentTransfer",
	"fecomposite":         "feComposite",
	"feconvolvematrix":    "feConvolveMatrix",
	"fediffuselighting":   "feDiffuseLighting",
	"fedisplacementmap":   "feDisplacementMap",
	"fedistantlight":      "feDistantLight",
	"fedropshadow":        "feDropShadow",
	"feflood":             "feFlood",
	"fefunca":             "feFuncA",
	"fefuncb":             "feFuncB",
	"fefuncg":             "feFuncG",
	"fefuncr":             "feFuncR",
	"fegaussianblur":      "feGaussianBlur",
	"feimage":             "feImage",
	"femerge":             "feMerge",
	"femergenode":         "feMergeNode",
	"femorphology":        "feMorphology",
	"feoffset":            "feOffset",
	"fepointlight":        "fePointLight",
	"fespecularlighting":  "feSpecularLighting",
	"fespotlight":         "feSpotLight",
	"fetile":              "feTile",
	"feturbulence":        "feTurbulence",
	"foreignobject":       "foreignObject",
	"glyphref":            "glyphRef",
	"lineargradient":      "linearGradient",
	"radialgradient":      "radialGradient",
	"textpath":            "textPath",
}

// svgAttrNames maps lowercased SVG attribute names back to mixed case.
var svgAttrNames = map[string]string{
	"attributename":             "attributeName",
	"attributetype":             "attributeType",
	"basefrequency":             "baseFrequency",
	"baseprofile":               "baseProfile",
	"calcmode":                  "calcMode",
	"clippathunits":             "clipPathUnits",
	"diffuseconstant":           "diffuseConstant",
	"edgemode":                  "edgeMode",
	"filterunits":               "filterUnits",
	"glyphref":                  "glyphRef",
	"gradienttransform":         "gradientTransform",
	"gradientunits":             "gradientUnits",
	"kernelmatrix":              "kernelMatrix",
	"kernelunitlength":          "kernelUnitLength",
	"keypoints":                 "keyPoints",
	"keysplines":                "keySplines",
	"keytimes":                  "keyTimes",
	"lengthadjust":              "lengthAdjust",
	"limitingconeangle":         "limitingConeAngle",
	"markerheight":              "markerHeight",
	"markerunits":               "markerUnits",
	"markerwidth":               "markerWidth",
	"maskcontentunits":          "maskContentUnits",
	"maskunits":                 "maskUnits",
	"numoctaves":                "numOctaves",
	"pathlength":                "pathLength",
	"patterncontentunits":       "patternContentUnits",
	"patterntransform":          "patternTransform",
	"patternunits":              "patternUnits",
	"pointsatx":                 "pointsAtX",
	"pointsaty":                 "pointsAtY",
	"pointsatz":                 "pointsAtZ",
	"preservealpha":             "preserveAlpha",
	"preserveaspectratio":       "preserveAspectRatio",
	"primitiveunits":            "primitiveUnits",
	"refx":                      "refX",
	"refy":                      "refY",
	"repeatcount":               "repeatCount",
	"repeatdur":                 "repeatDur",
	"requiredextensions":        "requiredExtensions",
	"requiredfeatures":          "requiredFeatures",
	"specularconstant":          "specularConstant",
	"specularexponent":          "specularExponent",
	"spreadmethod":              "spreadMethod",
	"startoffset":               "startOffset",
	"stddeviation":              "stdDeviation",
	"stitchtiles":               "stitchTiles",
	"surfacescale":              "surfaceScale",
	"systemlanguage":            "systemLanguage",
	"tablevalues":               "tableValues",
	"targetx":                   "targetX",
	"targety":                   "targetY",
	"textlength":                "textLength",
	"viewbox":                   "viewBox",
	"viewtarget":                "viewTarget",
	"xchannelselector":          "xChannelSelector",
	"ychannelselector":          "yChannelSelector",
	"zoomandpan":                "zoomAndPan",
}

// foreignNamespacedAttrs maps the xlink/xml/xmlns prefixes that foreign
// content attributes may carry.
var foreignNamespacedAttrs = map[string]struct {
	ns   dom.Namespace
	name string
}{
	"xlink:actuate": {dom.XLinkNamespace, "actuate"},
	"xlink:arcrole": {dom.XLinkNamespace, "arcrole"},
	"xlink:href":    {dom.XLinkNamespace, "href"},
	"xlink:role":    {dom.XLinkNamespace, "role"},
	"xlink:show":    {dom.XLinkNamespace, "show"},
	"xlink:title":   {dom.XLinkNamespace, "title"},
	"xlink:type":    {dom.XLinkNamespace, "type"},
	"xml:base":      {dom.XMLNamespace, "base"},
	"xml:lang":      {dom.XMLNamespace, "lang"},
	"xml:space":     {dom.XMLNamespace, "space"},
	"xmlns":         {dom.XMLNSNamespace, "xmlns"},
	"xmlns:xlink":   {dom.XMLNSNamespace, "xlink"},
}

// adjustSVGTagName fixes the casing of SVG tag names that the tokenizer
// lowercased.
func adjustSVGTagName(tag string) string {
	if fixed, ok := svgTagNames[tag]; ok {
		return fixed
	}
	return tag
}

// adjustForeignAttributes rewrites a token's attributes for insertion in the
// given foreign namespace: SVG attribute casing, the MathML definitionURL
// attribute, and the xlink/xml/xmlns namespaced attributes.
func adjustForeignAttributes(attrs dom.AttrList, ns dom.Namespace) dom.AttrList {
	out := make(dom.AttrList, 0, len(attrs))
	for _, attr := range attrs {
		if fixed, ok := foreignNamespacedAttrs[attr.Name]; ok {
			attr.Namespace = fixed.ns
			attr.Name = fixed.name
		} else if ns == dom.SVGNamespace {
			if fixed, ok := svgAttrNames[attr.Name]; ok {
				attr.Name = fixed
			}
		} else if ns == dom.MathMLNamespace && attr.Name == "definitionurl" {
			attr.Name = "definitionURL"
		}
		out = append(out, attr)
	}
	return out
}
