// Copyright 2022-2023 Tigris Data, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tigrisdata/docmapper/schema"
	"github.com/tigrisdata/docmapper/value"
)

const maxLineSize = 16 * 1024 * 1024

type checkResult struct {
	Checked  int
	Rejected int
}

// checkDocuments coerces every non-empty line of r against s. Accepted documents are written to out in their output
// form, rejected ones are reported to errOut with their line number.
func checkDocuments(s *schema.DocumentSchema, r io.Reader, out io.Writer, errOut io.Writer) (checkResult, error) {
	var res checkResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		res.Checked++

		doc, err := value.ParseDocument(s, raw)
		if err != nil {
			res.Rejected++
			fmt.Fprintf(errOut, "line %d: %s\n", line, err.Error())
			continue
		}

		b, err := jsoniter.Marshal(doc.Output())
		if err != nil {
			return res, err
		}
		fmt.Fprintln(out, string(b))
	}

	return res, scanner.Err()
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE DOCS.jsonl",
		Short: "Coerce newline delimited JSON documents against a configuration document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.compile(args[0])
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return pkgerrors.Wrapf(err, "opening '%s'", args[1])
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			res, err := checkDocuments(cfg.Schema, r, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return pkgerrors.Wrapf(err, "reading '%s'", args[1])
			}
			if res.Rejected > 0 {
				return fmt.Errorf("%d of %d documents rejected", res.Rejected, res.Checked)
			}
			return nil
		},
	}
}
