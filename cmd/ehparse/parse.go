package main

import (
	"fmt"
	"os"

	"github.com/ehviewer/ehparse"
	"github.com/ehviewer/ehparse/batch"
	"github.com/ehviewer/ehparse/json"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	kind, name, err := entryPoint(c.Kind)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ehparse.ErrorMessage(err))
		return err
	}

	input, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	capacity := c.Capacity
	if capacity <= 0 {
		capacity = len(input) + batch.DefaultHeadroom
	}

	status, out, err := deps.Caller.Call(deps.Ctx, name, input, capacity)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ehparse.ErrorMessage(err))
		return err
	}
	if !status.OK() {
		return fmt.Errorf("%s returned %s (%d)", name, status, int32(status))
	}

	if c.Validate {
		if err := deps.Validator.Validate(kind, out); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", ehparse.ErrorMessage(err))
			return err
		}
	}

	if c.Format == "text" {
		record, err := json.Unmarshal(kind, out)
		if err != nil {
			return err
		}
		text, err := ehparse.FormatRecord(record, deps.Converter)
		if err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, text)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "%s\n", out)
	return nil
}
