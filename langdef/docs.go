/*
Package langdef converts textual grammar description to grammar.Syntax structure.

Grammar description is parsed with a fixed rule collection (see Rules) built by the same parser
that handles any other grammar. Self-definition of the notation is:
*/
//  1 "optional_flag" {"?":"optional" "!":!"optional"}
//  2 "whitespace" ["w" @"optional_flag"]
//  3 "text" ["t" {"?":"allow_empty" "!":!"allow_empty"} ?t!"property"]
//  4 "number" ["$" ?"_":"allow_underscore" ?t!"property"]
//  5 "until_any_or_whitespace" [".." t?"any" @"optional_flag" ?t!"property"]
//  6 "token" [?"!":"not" t!"text" ?[":" ?"!":"inverted" t!"property"]]
//  7 "reference" ["@" t!"name" ?t!"property"]
//  8 "sequence" ["[" w? r?([@"rule" w?]) "]"]
//  9 "select" ["{" w? r?([@"rule" w?]) "}"]
//  10 "optional" ["?" @"rule"]
//  11 "repeat" ["r" @"optional_flag" "(" w? @"rule" w? ")"]
//  12 "lines" ["l" ?@"optional_flag" "(" w? @"rule" w? ")"]
//  13 "rule" {@"whitespace""whitespace" @"text""text" @"number""number" @"until_any_or_whitespace""until_any_or_whitespace" @"reference""reference" @"sequence""sequence" @"select""select" @"optional""optional" @"repeat""repeat" @"lines""lines" @"token""token"}
//  14 "node" [$"id" w! t?"name" w! @"rule"]
//  15 "document" l?(@"node""node")
/*
Description is a sequence of declarations, one per line; blank lines are ignored.
A declaration has a form:
   index "name" rule

Index is a number used to track down the declaration generating a parse error: all rules of
the declaration get it as their debug id. Indexes must be unique integers, their order does not matter.
Name is used to reference the rule from other declarations. The last declaration is the root one.

Rules are:
   "text"            token, matches literal text;
   "text":"p"        token setting bool property p to true when matched;
   "text":!"p"       same, but sets p to false;
   !"text"           fails if the text matches, matches empty string otherwise;
   !"text":"p"       same, sets p to false when the text is absent (true with :!"p");
   w? w!             optional or required whitespace (line feeds included);
   t? t!             string literal in double quotes with JSON escapes, t! does not accept "";
   t?"p" t!"p"       same, sets string property p to literal content;
   $ $_              number, $_ allows underscores as digit separators, e.g. 10_000;
   $"p" $_"p"        same, sets number property p;
   .."chars"?        characters up to any of chars or whitespace, may be empty;
   .."chars"!        same, must not be empty;
   .."chars"?"p"     same, sets string property p;
   [r1 r2 ...]       sequence, all rules in order;
   {r1 r2 ...}       select, the first matching rule;
   ?r                optional rule;
   r?(r) r!(r)       repeat rule zero or more (one or more) times;
   l(r) l?(r) l!(r)  repeat rule once per line skipping blank lines, l!(r) requires at least one line;
   @"name"           reference to declared rule;
   @"name""p"        same, wraps the output of the referenced rule in node p.

Whitespace is allowed between rules inside [] and {} lists and inside r() and l() parentheses.
No whitespace is allowed between a rule and its property name, e.g. [t! "p"] is a string literal
followed by "p" token.

Sample grammar:
   1 "greeting" ["say" w! t?"foo"]

matches text
   say "Hello world!"

producing single event String(foo, "Hello world!").
*/
package langdef
