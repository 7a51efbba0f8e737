package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ava12/meta"
	"github.com/ava12/meta/grammar"
	"github.com/ava12/meta/langdef"
)

const (
	genFormatGo   = "go"
	genFormatMeta = "meta"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*$`)

type genFlags struct {
	format      string
	outFileName string
	packageName string
	varName     string
}

func (a *app) genCmd() *cobra.Command {
	flags := &genFlags{}
	cmd := &cobra.Command{
		Use:   "gen <file>",
		Short: "Translate grammar description to Go source or normalized notation",
		Long: `Translate grammar description to Go source or normalized notation.

Go output declares a variable of type *grammar.Syntax holding unlinked rules,
parser.New links it on first use. Default output file is the input file with .go suffix.

Meta output renumbers declarations and prints them in canonical form,
default output is the standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.gen(cmd, flags, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.format, "format", "f", genFormatGo, "output format: go, meta")
	f.StringVarP(&flags.outFileName, "output", "o", "", `output file name, "-" is the standard output`)
	f.StringVarP(&flags.packageName, "package", "p", "", "Go package name, default is dir name of output file")
	f.StringVarP(&flags.varName, "var", "v", "", "Go variable name, default is the root rule name")
	return cmd
}

func (a *app) gen(cmd *cobra.Command, flags *genFlags, inFileName string) error {
	if flags.format != genFormatGo && flags.format != genFormatMeta {
		return fmt.Errorf("unknown output format %q", flags.format)
	}

	syntax, e := a.loadGrammar(cmd, inFileName)
	if e != nil {
		return e
	}

	outFileName := flags.outFileName
	if outFileName == "" {
		if flags.format == genFormatGo {
			outFileName = strings.TrimSuffix(inFileName, filepath.Ext(inFileName)) + ".go"
		} else {
			outFileName = "-"
		}
	}

	var content []byte
	if flags.format == genFormatMeta {
		content = []byte(langdef.Format(syntax))
	} else {
		packageName := flags.packageName
		if packageName == "" {
			dir, e := filepath.Abs(outFileName)
			if e != nil {
				return errors.Wrap(e, "cannot determine package name")
			}
			packageName = filepath.Base(filepath.Dir(dir))
		}

		varName := flags.varName
		if varName == "" {
			varName = exportedName(syntax.Name(syntax.Len() - 1).String())
		}

		content, e = makeGo(syntax, packageName, varName, filepath.Base(inFileName))
		if e != nil {
			return e
		}
	}

	if outFileName == "-" {
		_, e = cmd.OutOrStdout().Write(content)
		return e
	}

	if e = os.WriteFile(outFileName, content, 0o666); e != nil {
		return errors.Wrapf(e, "failed to write %q", outFileName)
	}

	a.log.WithField("file", outFileName).Info("grammar written")
	return nil
}

// exportedName converts rule name like "key-value" to Go identifier like "KeyValue".
func exportedName(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func makeGo(syntax *grammar.Syntax, packageName, varName, sourceName string) ([]byte, error) {
	if !identPattern.MatchString(packageName) {
		return nil, fmt.Errorf("invalid package name: %s", packageName)
	}
	if !identPattern.MatchString(varName) {
		return nil, fmt.Errorf("invalid variable name: %s", varName)
	}

	var buffer bytes.Buffer
	buffer.WriteString("// Code generated with metagen from " + sourceName + ". DO NOT EDIT.\n\n" +
		"package " + packageName + "\n\n" +
		"import (\n\t\"github.com/ava12/meta\"\n\t\"github.com/ava12/meta/grammar\"\n)\n\n" +
		"var " + varName + " = grammar.New()")

	for i := 0; i < syntax.Len(); i++ {
		buffer.WriteString(".\n\tPush(" + goName(syntax.Name(i)) + ", ")
		goRule(&buffer, syntax.Rule(i))
		buffer.WriteString(")")
	}
	buffer.WriteString("\n")

	return format.Source(buffer.Bytes())
}

func goName(n meta.Name) string {
	return fmt.Sprintf("meta.NewName(%q)", n.String())
}

type goFields []string

func (f *goFields) add(cond bool, field string, params ...any) {
	if cond {
		*f = append(*f, fmt.Sprintf(field, params...))
	}
}

func goRule(buffer *bytes.Buffer, r grammar.Rule) {
	fields := goFields{fmt.Sprintf("ID: %d", r.DebugID())}
	var typeName string
	var nested []grammar.Rule
	nestedField := ""

	switch r := r.(type) {
	case *grammar.Whitespace:
		typeName = "Whitespace"
		fields.add(r.Optional, "Optional: true")
	case *grammar.Token:
		typeName = "Token"
		fields.add(true, "Text: %q", r.Text)
		fields.add(r.Not, "Not: true")
		fields.add(r.Inverted, "Inverted: true")
		fields.add(!r.Property.IsZero(), "Property: %s", goName(r.Property))
	case *grammar.UntilAnyOrWhitespace:
		typeName = "UntilAnyOrWhitespace"
		fields.add(r.Any != "", "Any: %q", r.Any)
		fields.add(r.Optional, "Optional: true")
		fields.add(!r.Property.IsZero(), "Property: %s", goName(r.Property))
	case *grammar.Text:
		typeName = "Text"
		fields.add(r.AllowEmpty, "AllowEmpty: true")
		fields.add(!r.Property.IsZero(), "Property: %s", goName(r.Property))
	case *grammar.Number:
		typeName = "Number"
		fields.add(r.AllowUnderscore, "AllowUnderscore: true")
		fields.add(!r.Property.IsZero(), "Property: %s", goName(r.Property))
	case *grammar.Sequence:
		typeName, nestedField, nested = "Sequence", "Args", r.Args
	case *grammar.Select:
		typeName, nestedField, nested = "Select", "Args", r.Args
	case *grammar.Optional:
		typeName, nestedField, nested = "Optional", "Rule", []grammar.Rule{r.Rule}
	case *grammar.Repeat:
		typeName, nestedField, nested = "Repeat", "Rule", []grammar.Rule{r.Rule}
		fields.add(r.Optional, "Optional: true")
	case *grammar.Lines:
		typeName, nestedField, nested = "Lines", "Rule", []grammar.Rule{r.Rule}
		fields.add(r.Optional, "Optional: true")
	case *grammar.Node:
		typeName = "Node"
		fields.add(true, "Name: %s", goName(r.Name))
		fields.add(!r.Property.IsZero(), "Property: %s", goName(r.Property))
	}

	buffer.WriteString("&grammar." + typeName + "{" + strings.Join(fields, ", "))
	switch nestedField {
	case "Args":
		buffer.WriteString(", Args: []grammar.Rule{")
		for i, arg := range nested {
			if i > 0 {
				buffer.WriteString(", ")
			}
			goRule(buffer, arg)
		}
		buffer.WriteString("}")
	case "Rule":
		buffer.WriteString(", Rule: ")
		goRule(buffer, nested[0])
	}
	buffer.WriteString("}")
}
