// typekit compiles YAML type definitions into schema applications and checks
// JSON documents against them.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"

	typekit "github.com/reoring/typekit"
	"github.com/reoring/typekit/i18n"
	"github.com/reoring/typekit/irconv"
	"github.com/reoring/typekit/jsonschema"
)

// cliOptions describes typekit CLI flags and subcommands.
type cliOptions struct {
	Lang string `long:"lang" description:"Diagnostic message language" choice:"en" choice:"ja" default:"en"`

	Schema schemaCommand `command:"schema" description:"Compile type definitions into a schema application"`
	Check  checkCommand  `command:"check" description:"Validate a JSON document against a type definition"`
}

// schemaCommand compiles a YAML type-definition file into a schema
// application document.
type schemaCommand struct {
	Purpose   string `long:"purpose" description:"Schema dialect" choice:"swagger" choice:"ajv" default:"swagger"`
	RefPrefix string `long:"ref-prefix" description:"Prefix for generated $ref targets" default:"#/components/schemas/"`
	YAML      bool   `long:"yaml" description:"Emit YAML instead of JSON"`

	Args struct {
		Input  string `positional-arg-name:"input" description:"YAML type-definition file" required:"yes"`
		Output string `positional-arg-name:"output" description:"Output file (stdout when omitted)"`
	} `positional-args:"yes"`
}

func (cmd *schemaCommand) Execute(_ []string) error {
	data, err := os.ReadFile(cmd.Args.Input)
	if err != nil {
		return err
	}
	roots, err := irconv.FromYAML(data)
	if err != nil {
		return err
	}
	app, err := typekit.Application(jsonschema.Options{
		Purpose:   jsonschema.Purpose(cmd.Purpose),
		RefPrefix: cmd.RefPrefix,
	}, roots...)
	if err != nil {
		return err
	}
	var out []byte
	if cmd.YAML {
		out, err = yaml.Marshal(app)
	} else {
		if out, err = app.JSON(); err == nil {
			out = append(out, '\n')
		}
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd.Args.Output, out)
}

// checkCommand validates a JSON document against the first root of a type
// definition and prints accumulated diagnostics.
type checkCommand struct {
	Args struct {
		Types string `positional-arg-name:"types" description:"YAML type-definition file" required:"yes"`
		Input string `positional-arg-name:"input" description:"JSON document (stdin when omitted)"`
	} `positional-args:"yes"`
}

func (cmd *checkCommand) Execute(_ []string) error {
	defs, err := os.ReadFile(cmd.Args.Types)
	if err != nil {
		return err
	}
	roots, err := irconv.FromYAML(defs)
	if err != nil {
		return err
	}
	t, err := typekit.New(roots[0])
	if err != nil {
		return err
	}
	var doc []byte
	if cmd.Args.Input == "" {
		doc, err = io.ReadAll(os.Stdin)
	} else {
		doc, err = os.ReadFile(cmd.Args.Input)
	}
	if err != nil {
		return err
	}
	v, err := typekit.Parse(doc)
	if err != nil {
		return err
	}
	res := t.Validate(v)
	if res.OK {
		fmt.Println("ok")
		return nil
	}
	report, err := json.MarshalIndent(res.Errors, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(report))
	os.Exit(1)
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func main() {
	options := &cliOptions{}
	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		i18n.SetLanguage(options.Lang)
		return command.Execute(args)
	}
	if _, err := parser.Parse(); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			fmt.Println(err.Error())
			return
		}
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
}
