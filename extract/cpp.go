package extract

import (
	"strings"
	"unicode/utf8"
)

type tokKind int

const (
	tokIdent tokKind = iota
	tokString
	tokNumber
	tokPunct
	// tokExtra is a "//: text" or "/*: text */" translator note.
	tokExtra
	// tokMetaID is a "//= id" message id.
	tokMetaID
)

type token struct {
	kind tokKind
	text string
	line int
}

type warning struct {
	line int
	text string
}

// lexer splits C++ source into the tokens the extractor cares about.
// Preprocessor directives and ordinary comments are dropped; string
// literals are unescaped.
type lexer struct {
	src  []byte
	pos  int
	line int
}

func lexCpp(src []byte) []token {
	lx := &lexer{src: src, line: 1}
	var toks []token
	lineStart := true

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\n':
			lx.line++
			lx.pos++
			lineStart = true
			continue
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			lx.pos++
			continue
		case c == '/' && lx.peek(1) == '/':
			if t, ok := lx.lineComment(); ok {
				toks = append(toks, t)
			}
			continue
		case c == '/' && lx.peek(1) == '*':
			if t, ok := lx.blockComment(); ok {
				toks = append(toks, t)
			}
			continue
		case c == '#' && lineStart:
			lx.skipDirective()
			continue
		}

		lineStart = false
		switch {
		case c == '"':
			toks = append(toks, lx.stringLit())
		case c == '\'':
			lx.charLit()
		case isIdentStart(c):
			start, line := lx.pos, lx.line
			for lx.pos < len(lx.src) && isIdentChar(lx.src[lx.pos]) {
				lx.pos++
			}
			word := string(lx.src[start:lx.pos])
			if lx.peek(0) == '"' {
				switch word {
				case "R", "u8R", "uR", "UR", "LR":
					toks = append(toks, lx.rawString())
					continue
				case "u8", "u", "U", "L":
					toks = append(toks, lx.stringLit())
					continue
				}
			}
			toks = append(toks, token{kind: tokIdent, text: word, line: line})
		case c >= '0' && c <= '9':
			start := lx.pos
			for lx.pos < len(lx.src) && (isIdentChar(lx.src[lx.pos]) || lx.src[lx.pos] == '.' ||
				(lx.src[lx.pos] == '\'' && isIdentChar(lx.peek(1)))) {
				lx.pos++
			}
			toks = append(toks, token{kind: tokNumber, text: string(lx.src[start:lx.pos]), line: lx.line})
		case c == ':' && lx.peek(1) == ':':
			toks = append(toks, token{kind: tokPunct, text: "::", line: lx.line})
			lx.pos += 2
		case c == '-' && lx.peek(1) == '>':
			toks = append(toks, token{kind: tokPunct, text: "->", line: lx.line})
			lx.pos += 2
		default:
			toks = append(toks, token{kind: tokPunct, text: string(c), line: lx.line})
			lx.pos++
		}
	}
	return toks
}

func (lx *lexer) peek(off int) byte {
	if lx.pos+off < len(lx.src) {
		return lx.src[lx.pos+off]
	}
	return 0
}

// skipDirective skips a preprocessor line including backslash continuations.
// The terminating newline is left for the caller.
func (lx *lexer) skipDirective() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '\\' && lx.peek(1) == '\n' {
			lx.pos += 2
			lx.line++
			continue
		}
		if c == '\n' {
			return
		}
		lx.pos++
	}
}

func (lx *lexer) lineComment() (token, bool) {
	line := lx.line
	start := lx.pos + 2
	end := start
	for end < len(lx.src) && lx.src[end] != '\n' {
		end++
	}
	lx.pos = end
	return metaComment(string(lx.src[start:end]), line)
}

func (lx *lexer) blockComment() (token, bool) {
	line := lx.line
	start := lx.pos + 2
	end := start
	for end < len(lx.src) && !(lx.src[end] == '*' && end+1 < len(lx.src) && lx.src[end+1] == '/') {
		if lx.src[end] == '\n' {
			lx.line++
		}
		end++
	}
	text := string(lx.src[start:end])
	lx.pos = end + 2
	if lx.pos > len(lx.src) {
		lx.pos = len(lx.src)
	}
	return metaComment(text, line)
}

func metaComment(text string, line int) (token, bool) {
	switch {
	case strings.HasPrefix(text, ":"):
		return token{kind: tokExtra, text: strings.Join(strings.Fields(text[1:]), " "), line: line}, true
	case strings.HasPrefix(text, "="):
		return token{kind: tokMetaID, text: strings.TrimSpace(text[1:]), line: line}, true
	}
	return token{}, false
}

// stringLit reads a "..." literal starting at the opening quote.
func (lx *lexer) stringLit() token {
	line := lx.line
	lx.pos++
	var buf []byte
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch c {
		case '"':
			lx.pos++
			return token{kind: tokString, text: string(buf), line: line}
		case '\n':
			// Unterminated literal.
			return token{kind: tokString, text: string(buf), line: line}
		case '\\':
			buf = lx.escape(buf)
		default:
			buf = append(buf, c)
			lx.pos++
		}
	}
	return token{kind: tokString, text: string(buf), line: line}
}

// escape decodes the escape sequence at lx.pos (a backslash) into buf.
func (lx *lexer) escape(buf []byte) []byte {
	lx.pos++
	if lx.pos >= len(lx.src) {
		return buf
	}
	c := lx.src[lx.pos]
	lx.pos++
	switch c {
	case 'n':
		return append(buf, '\n')
	case 't':
		return append(buf, '\t')
	case 'r':
		return append(buf, '\r')
	case 'a':
		return append(buf, '\a')
	case 'b':
		return append(buf, '\b')
	case 'f':
		return append(buf, '\f')
	case 'v':
		return append(buf, '\v')
	case '\n':
		lx.line++
		return buf
	case 'x':
		v, n := 0, 0
		for lx.pos < len(lx.src) && isHex(lx.src[lx.pos]) {
			v = v*16 + hexVal(lx.src[lx.pos])
			lx.pos++
			n++
		}
		if n == 0 {
			return append(buf, 'x')
		}
		if v < 0x100 {
			return append(buf, byte(v))
		}
		return utf8.AppendRune(buf, rune(v))
	case 'u', 'U':
		width := 4
		if c == 'U' {
			width = 8
		}
		v := 0
		for i := 0; i < width && lx.pos < len(lx.src) && isHex(lx.src[lx.pos]); i++ {
			v = v*16 + hexVal(lx.src[lx.pos])
			lx.pos++
		}
		return utf8.AppendRune(buf, rune(v))
	}
	if c >= '0' && c <= '7' {
		v := int(c - '0')
		for i := 0; i < 2 && lx.pos < len(lx.src) && lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '7'; i++ {
			v = v*8 + int(lx.src[lx.pos]-'0')
			lx.pos++
		}
		return append(buf, byte(v))
	}
	// \\ \" \' \? and unknown escapes stand for the character itself.
	return append(buf, c)
}

// rawString reads R"delim(...)delim" starting at the opening quote.
func (lx *lexer) rawString() token {
	line := lx.line
	lx.pos++
	open := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '(' && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
	if lx.pos >= len(lx.src) || lx.src[lx.pos] != '(' {
		return token{kind: tokString, line: line}
	}
	closing := ")" + string(lx.src[open:lx.pos]) + `"`
	lx.pos++
	end := strings.Index(string(lx.src[lx.pos:]), closing)
	if end < 0 {
		end = len(lx.src) - lx.pos
	}
	text := string(lx.src[lx.pos : lx.pos+end])
	lx.line += strings.Count(text, "\n")
	lx.pos += end + len(closing)
	if lx.pos > len(lx.src) {
		lx.pos = len(lx.src)
	}
	return token{kind: tokString, text: text, line: line}
}

func (lx *lexer) charLit() {
	lx.pos++
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			lx.pos += 2
		case '\'':
			lx.pos++
			return
		case '\n':
			return
		default:
			lx.pos++
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

type scopeKind int

const (
	scopeFile scopeKind = iota
	scopeNamespace
	scopeClass
	scopeFunction
	scopeBlock
)

// scope is an open brace. prefix qualifies names declared inside it;
// context is the class tr() resolves to.
type scope struct {
	kind    scopeKind
	prefix  string
	context string
}

// cppParser walks the token stream keeping just enough structure to know
// which class a tr() call belongs to.
type cppParser struct {
	toks  []token
	stack []scope
	parens int

	// Set between "class Foo" / "namespace ns" and their opening brace.
	pendingClass     string
	hasPendingClass  bool
	pendingNamespace string
	hasPendingNS     bool

	// Set after "Foo::bar(" until the end of that definition.
	pendingQual string
	hasQual     bool
	initList    bool

	extras []string
	metaID string

	msgs     []extracted
	warnings []warning
}

// parseCpp extracts messages from C++ source.
func parseCpp(src []byte) ([]extracted, []warning) {
	p := &cppParser{
		toks:  lexCpp(src),
		stack: []scope{{kind: scopeFile}},
	}
	for i := range p.toks {
		p.step(i)
	}
	return p.msgs, p.warnings
}

func (p *cppParser) top() scope {
	return p.stack[len(p.stack)-1]
}

func (p *cppParser) atDeclLevel() bool {
	switch p.top().kind {
	case scopeFile, scopeNamespace, scopeClass:
		return true
	}
	return false
}

func (p *cppParser) tok(i int) token {
	if i < 0 || i >= len(p.toks) {
		return token{kind: tokPunct}
	}
	return p.toks[i]
}

func (p *cppParser) is(i int, kind tokKind, text string) bool {
	t := p.tok(i)
	return t.kind == kind && t.text == text && i >= 0 && i < len(p.toks)
}

func (p *cppParser) step(i int) {
	t := p.toks[i]
	switch t.kind {
	case tokExtra:
		if t.text != "" {
			p.extras = append(p.extras, t.text)
		}
		return
	case tokMetaID:
		p.metaID = t.text
		return
	case tokIdent:
		p.ident(i)
		return
	case tokPunct:
		p.punct(i)
	}
}

func (p *cppParser) ident(i int) {
	t := p.toks[i]
	switch t.text {
	case "class", "struct":
		if p.is(i-1, tokIdent, "enum") || p.parens > 0 {
			return
		}
		if name, ok := p.declName(i + 1); ok {
			p.pendingClass, p.hasPendingClass = name, true
		}
		return
	case "namespace":
		if name, ok := p.declName(i + 1); ok {
			p.pendingNamespace, p.hasPendingNS = name, true
		}
		return
	}

	if !p.is(i+1, tokPunct, "(") {
		return
	}
	if p.keyword(i) {
		return
	}

	// Remember "Foo::bar(" so the following body resolves tr() to Foo.
	if p.parens != 0 || !p.atDeclLevel() || p.initList {
		return
	}
	j := i - 1
	if p.is(j, tokPunct, "~") {
		j--
	}
	if p.is(j, tokPunct, "::") {
		p.pendingQual, p.hasQual = p.qualifierBefore(j), true
	} else if p.top().kind != scopeClass {
		p.pendingQual, p.hasQual = "", false
	}
}

// declName reads the name following class/struct/namespace up to the
// opening brace or base list. It reports false for forward declarations,
// template parameters and namespace aliases.
func (p *cppParser) declName(j int) (string, bool) {
	var name string
	for ; j < len(p.toks); j++ {
		t := p.toks[j]
		switch {
		case t.kind == tokIdent:
			if t.text == "final" {
				continue
			}
			if p.is(j-1, tokPunct, "::") && name != "" {
				name += "::" + t.text
			} else {
				name = t.text
			}
		case t.kind == tokPunct && t.text == "::":
		case t.kind == tokPunct && (t.text == "{" || t.text == ":"):
			return name, true
		case t.kind == tokExtra || t.kind == tokMetaID:
		default:
			return "", false
		}
	}
	return "", false
}

// qualifierBefore returns the "A::B" chain ending just before the "::" at j.
func (p *cppParser) qualifierBefore(j int) string {
	var parts []string
	for p.is(j, tokPunct, "::") && p.tok(j-1).kind == tokIdent {
		parts = append([]string{p.tok(j - 1).text}, parts...)
		j -= 2
	}
	return strings.Join(parts, "::")
}

func (p *cppParser) punct(i int) {
	switch p.toks[i].text {
	case "(":
		p.parens++
	case ")":
		if p.parens > 0 {
			p.parens--
		}
	case ":":
		if p.hasQual && p.parens == 0 && p.atDeclLevel() && p.is(i-1, tokPunct, ")") {
			p.initList = true
		}
	case ";":
		if len(p.extras) > 0 || p.metaID != "" {
			p.warnings = append(p.warnings, warning{line: p.toks[i].line, text: "discarding unconsumed meta data"})
			p.extras, p.metaID = nil, ""
		}
		if p.parens == 0 && p.atDeclLevel() {
			p.hasPendingClass, p.hasPendingNS = false, false
			p.pendingQual, p.hasQual, p.initList = "", false, false
		}
	case "{":
		p.open(i)
	case "}":
		if len(p.stack) > 1 {
			closed := p.top()
			p.stack = p.stack[:len(p.stack)-1]
			if closed.kind == scopeFunction {
				p.pendingQual, p.hasQual, p.initList = "", false, false
			}
		}
	}
}

func (p *cppParser) open(i int) {
	cur := p.top()
	switch {
	case p.hasPendingNS:
		p.hasPendingNS = false
		p.stack = append(p.stack, scope{kind: scopeNamespace, prefix: qualify(cur.prefix, p.pendingNamespace)})
	case p.hasPendingClass:
		p.hasPendingClass = false
		name := qualify(cur.prefix, p.pendingClass)
		p.stack = append(p.stack, scope{kind: scopeClass, prefix: name, context: name})
	case p.atDeclLevel() && p.hasQual:
		prev := p.tok(i - 1)
		if p.initList && (prev.kind == tokIdent || prev.text == ">") {
			// Brace initializer of a member in a constructor init list.
			p.stack = append(p.stack, scope{kind: scopeBlock, prefix: cur.prefix, context: cur.context})
			return
		}
		p.initList = false
		p.stack = append(p.stack, scope{kind: scopeFunction, prefix: cur.prefix, context: qualify(cur.prefix, p.pendingQual)})
	case p.atDeclLevel() && cur.kind != scopeClass:
		p.stack = append(p.stack, scope{kind: scopeFunction, prefix: cur.prefix})
	default:
		p.stack = append(p.stack, scope{kind: scopeBlock, prefix: cur.prefix, context: cur.context})
	}
}

func qualify(prefix, name string) string {
	switch {
	case prefix == "":
		return name
	case name == "":
		return prefix
	}
	return prefix + "::" + name
}

// keyword extracts a message if the call at i is a translation function.
// It reports whether i named one.
func (p *cppParser) keyword(i int) bool {
	t := p.toks[i]
	switch t.text {
	case "tr", "trUtf8":
		p.trCall(i)
	case "translate":
		args := p.args(i + 1)
		if len(args) < 2 {
			return true
		}
		ctx, ok1 := stringArg(args[0])
		src, ok2 := stringArg(args[1])
		if !ok1 || !ok2 {
			return true
		}
		var comment string
		if len(args) > 2 {
			comment, _ = stringArg(args[2])
		}
		numerusAt := 3
		if len(args) > 3 && isEncodingArg(args[3]) {
			numerusAt = 4
		}
		p.emit(t.line, ctx, src, comment, len(args) > numerusAt)
	case "QT_TR_NOOP", "QT_TR_NOOP_UTF8", "QT_TR_N_NOOP":
		args := p.args(i + 1)
		if len(args) < 1 {
			return true
		}
		src, ok := stringArg(args[0])
		if !ok {
			return true
		}
		ctx := p.top().context
		if ctx == "" {
			p.warn(t.line, t.text+"() cannot be called without context")
			return true
		}
		p.emit(t.line, ctx, src, "", t.text == "QT_TR_N_NOOP")
	case "QT_TRANSLATE_NOOP", "QT_TRANSLATE_NOOP_UTF8", "QT_TRANSLATE_NOOP3",
		"QT_TRANSLATE_NOOP3_UTF8", "QT_TRANSLATE_N_NOOP", "QT_TRANSLATE_N_NOOP3":
		args := p.args(i + 1)
		if len(args) < 2 {
			return true
		}
		ctx, ok1 := stringArg(args[0])
		src, ok2 := stringArg(args[1])
		if !ok1 || !ok2 {
			return true
		}
		var comment string
		if strings.Contains(t.text, "NOOP3") && len(args) > 2 {
			comment, _ = stringArg(args[2])
		}
		p.emit(t.line, ctx, src, comment, strings.Contains(t.text, "_N_"))
	default:
		return false
	}
	return true
}

func (p *cppParser) trCall(i int) {
	t := p.toks[i]
	args := p.args(i + 1)
	if len(args) < 1 {
		return
	}
	src, ok := stringArg(args[0])
	if !ok {
		// Declaration or forwarding call, not a literal.
		return
	}
	if p.is(i-1, tokPunct, ".") || p.is(i-1, tokPunct, "->") {
		p.warn(t.line, "cannot invoke tr() like this")
		return
	}

	ctx := p.top().context
	if p.is(i-1, tokPunct, "::") {
		ctx = p.qualifierBefore(i - 1)
	}
	if ctx == "" {
		p.warn(t.line, "tr() cannot be called without context")
		return
	}

	var comment string
	if len(args) > 1 {
		comment, _ = stringArg(args[1])
	}
	p.emit(t.line, ctx, src, comment, len(args) > 2)
}

func (p *cppParser) emit(line int, ctx, src, comment string, numerus bool) {
	p.msgs = append(p.msgs, extracted{
		context:      ctx,
		source:       src,
		comment:      comment,
		extraComment: strings.Join(p.extras, " "),
		id:           p.metaID,
		numerus:      numerus,
		line:         line,
	})
	p.extras, p.metaID = nil, ""
}

func (p *cppParser) warn(line int, text string) {
	p.warnings = append(p.warnings, warning{line: line, text: text})
}

// args splits the argument list of the call whose "(" is at j.
func (p *cppParser) args(j int) [][]token {
	if !p.is(j, tokPunct, "(") {
		return nil
	}
	var out [][]token
	var cur []token
	depth := 0
	for k := j + 1; k < len(p.toks); k++ {
		t := p.toks[k]
		if t.kind == tokPunct {
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					if len(cur) > 0 || len(out) > 0 {
						out = append(out, cur)
					}
					return out
				}
				depth--
			case ",":
				if depth == 0 {
					out = append(out, cur)
					cur = nil
					continue
				}
			}
		}
		if t.kind == tokExtra || t.kind == tokMetaID {
			continue
		}
		cur = append(cur, t)
	}
	return out
}

// stringArg concatenates an argument made only of string literals.
// A null pointer stands for the empty string.
func stringArg(arg []token) (string, bool) {
	if len(arg) == 1 && arg[0].kind != tokString {
		switch arg[0].text {
		case "nullptr", "NULL", "0", "Q_NULLPTR":
			return "", true
		}
		return "", false
	}
	if len(arg) == 0 {
		return "", false
	}
	var b strings.Builder
	for _, t := range arg {
		if t.kind != tokString {
			return "", false
		}
		b.WriteString(t.text)
	}
	return b.String(), true
}

// isEncodingArg detects the Qt 4 encoding parameter of translate().
func isEncodingArg(arg []token) bool {
	for _, t := range arg {
		switch t.text {
		case "UnicodeUTF8", "CodecForTr", "DefaultCodec":
			return true
		}
	}
	return false
}
