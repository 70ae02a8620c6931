// Package lang implements the template language used to render color
// schemes into configuration files.
//
// A template is literal text interleaved with expressions and blocks. With
// the default delimiters, expressions are written {{ ... }} and blocks
// <* ... *>. Both pairs can be replaced with [WithSyntax].
//
// # Grammar
//
// Informal EBNF:
//
//	Template   → (Raw | Expr | Block)*
//	Expr       → '{{' Pipeline '}}'
//	Pipeline   → Operand (Op Operand)? ('|' Filter)*
//	Operand    → Path | Number | String | Bool | Expr
//	Path       → Segment ('.' Segment)*
//	Segment    → Identifier | '"' chars '"'
//	Filter     → Identifier (':' Arg (',' Arg)*)?
//	Op         → '+' | '-' | '*' | '/'
//	Block      → For | If | Include
//	For        → '<*' 'for' Identifier (',' Identifier)? 'in' (Path | Range) '*>'
//	               Template '<*' 'endfor' '*>'
//	Range      → Integer '..' Integer
//	If         → '<*' 'if' (Pipeline | Expr) '*>' Template
//	               ('<*' 'else' '*>' Template)? '<*' 'endif' '*>'
//	Include    → '<*' 'include' (Name | String) '*>'
//
// # Colors
//
// The first path segment "colors" is reserved. A full color path names a
// role, a scheme and a format:
//
//	{{ colors.primary.dark.hex }}
//	{{ colors.surface.default.rgba }}
//
// The scheme "default" resolves to the scheme chosen with
// [WithDefaultScheme]. A color without a trailing format is an error when
// printed, but is valid as the input of a filter chain:
//
//	{{ colors.primary.default.hex | lighten: 10 | to_upper }}
//
// A chain that starts at a role and ends with a color writes the result
// back into the engine's mutation cache, so later lookups of that role see
// the mutated color. See [Engine].
//
// # Errors
//
// Parse errors are returned by [Engine.AddTemplate] as *[ParseError].
// Errors found while rendering are collected as *[Diagnostic] values and
// returned together with the output; [Report] renders them as annotated
// source snippets. Every error kind is an exported sentinel for use with
// errors.Is.
package lang
