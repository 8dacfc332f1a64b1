package parser

// Token rules. Type names and identifiers share one lexical shape; their
// position in a declaration decides which is which.
var (
	identifierRule = capture(KindIdentifier, identifier)
	typeRule       = capture(KindType, identifier)
	digitsRule     = capture(KindDigits, digits)
	precisionRule  = capture(KindPrecision, keywords("lowp", "mediump", "highp"))
	ioRule         = capture(KindIO, keywords("in", "out", "inout"))
	arraySizeRule  = capture(KindArraySize, seq(one('['), skip, digitsRule, skip, one(']')))
	filePathRule   = capture(KindFilePath, plus(notOne('"')))
)

// #line 12 "path/to/file.glsl"
var lineDirectiveRule = seq(
	lit("#line"), skip, digitsRule, skip,
	one('"'), filePathRule, one('"'),
)

// struct Name { [precision] type name [N]; ... }
var (
	memberRule = capture(KindMember, seq(
		opt(precisionRule), skip, typeRule, skip, identifierRule, skip,
		opt(arraySizeRule), skip, one(';'),
	))
	membersRule = capture(KindMembers, plus(seq(skip, memberRule, skip)))
	structRule  = capture(KindStructDef, seq(
		keyword("struct"), skip, identifierRule, skip,
		one('{'), skip, opt(membersRule), skip, one('}'),
	))
)

// type name([io] [precision] type name [N], ...) {
// Matching stops at the opening brace; the body is left to the scanner.
var (
	parameterRule = capture(KindParameter, seq(
		opt(ioRule), skip, opt(precisionRule), skip, typeRule, skip, identifierRule, skip,
		opt(arraySizeRule),
	))
	parametersRule = capture(KindParameters, list(
		seq(skip, parameterRule, skip),
		seq(skip, one(','), skip),
	))
	functionRule = capture(KindFunctionDec, seq(
		typeRule, skip, identifierRule, skip,
		one('('), skip, opt(parametersRule), skip, one(')'), skip, one('{'),
	))
)

// topLevel tries each declaration shape in priority order and otherwise
// consumes one character, so it matches any input in full.
var topLevel = star(sor(lineDirectiveRule, structRule, functionRule, anyChar))
