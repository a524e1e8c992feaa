/*
Copyright 2020 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/


package commander

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

const (
	// PrinterAllowedFormats is the configuration key for setting the list of
	// allowed output formats. This must be a comma-delimited list of format
	// names that will reduce the default of formats (e.g. to allow only
	// JSON and YAML).
	PrinterAllowedFormats = "allowedFormats"
	// PrinterOutputFormat is the configuration key for setting the initial
	// output format. This value is effectively the default output format for
	// the command. It must be set to one of the allowed formats.
	PrinterOutputFormat = "outputFormat"
	// PrinterColumns is the configuration key for setting the initial column
	// list. This must be a comma-delimited list of column names that will be
	// displayed for tabular formats.
	PrinterColumns = "columns"
	// PrinterNoHeader is the configuration key for setting the initial
	// suppress header flag value. Suppressing the header on tabular formats
	// will prevent the header row from being emitted.
	PrinterNoHeader = "noHeader"
)

// ResourcePrinter formats an object to a byte stream
type ResourcePrinter interface {
	// PrintObj formats the specified object to the specified writer
	PrintObj(interface{}, io.Writer) error
}

// TableMeta is used to inspect objects for formatting
type TableMeta interface {
	// ExtractList accepts a single object (which possibly represents a list) and returns a slice to iterate over; this
	// should include a single element slice from the input object if it does not represent a list
	ExtractList(obj interface{}) ([]interface{}, error)
	// Columns returns the default list of columns to render for a given object (in some cases this may be overridden by the user)
	Columns(obj interface{}, outputFormat string) []string
	// ExtractValue returns the column string value for a given object from the extract list result
	ExtractValue(obj interface{}, column string) (string, error)
	// Header returns the header value to use for a column
	Header(outputFormat string, column string) string
}

// NoPrinterError is an error occurring when no suitable printer is available
type NoPrinterError struct {
	// OutputFormat is the requested output format
	OutputFormat string
	// AllowedFormats are the available output formats
	AllowedFormats []string
}

// Error returns a useful message for a "no printer" error
func (e NoPrinterError) Error() string {
	sort.Strings(e.AllowedFormats)
	return fmt.Sprintf("no printer for %s, allowed formats are: %s", e.OutputFormat, strings.Join(e.AllowedFormats, ","))
}

// requiresMeta returns true for the formats that require a TableMeta
func requiresMeta(outputFormat string) bool {
	switch outputFormat {
	case "name", "wide", "csv", "":
		return true
	}
	return false
}

// printFlags are the options for creating a printer
type printFlags struct {
	// allowedFormats are the possible formats
	allowedFormats []string
	// outputFormat determines what type of printer should be created
	outputFormat string
	// meta is an optional inspector required for some formats
	meta TableMeta
	// columns overrides the default column list for supported formats
	columns []string
	// noHeader suppresses the headers for supported formats
	noHeader bool
}

// printFlagsFieldSep checks for the field separator when parsing configuration values
func printFlagsFieldSep(c rune) bool { return c == ',' }

// newPrintFlags returns a new print flags instance with settings parsed from a map of name/value configuration pairs
func newPrintFlags(meta TableMeta, config map[string]string) *printFlags {
	pf := &printFlags{meta: meta}

	// Split the column list
	pf.columns = strings.FieldsFunc(config[PrinterColumns], printFlagsFieldSep)
	for i := range pf.columns {
		pf.columns[i] = strings.TrimSpace(pf.columns[i])
	}

	// Parse boolean flags (ignore failures and leave false)
	pf.noHeader, _ = strconv.ParseBool(config[PrinterNoHeader])

	// Compute the list of allowed printer formats
	outputFormat := strings.ToLower(config[PrinterOutputFormat])
	allowedFormats := strings.FieldsFunc(config[PrinterAllowedFormats], printFlagsFieldSep)
	for i := range allowedFormats {
		allowedFormats[i] = strings.ToLower(strings.TrimSpace(allowedFormats[i]))
	}
	if len(allowedFormats) == 0 {
		allowedFormats = []string{"json", "yaml", "name", "wide", "csv", ""}
	}

	seen := make(map[string]struct{}, len(allowedFormats))
	for _, allowedFormat := range allowedFormats {
		if requiresMeta(allowedFormat) && pf.meta == nil {
			continue
		}
		if _, ok := seen[allowedFormat]; ok {
			continue
		}
		pf.allowedFormats = append(pf.allowedFormats, allowedFormat)
		seen[allowedFormat] = struct{}{}

		// Only set the output format if it is allowed
		if outputFormat == allowedFormat {
			pf.outputFormat = allowedFormat
		}
	}

	// Override the output format if there is no choice
	if len(pf.allowedFormats) == 1 {
		pf.outputFormat = pf.allowedFormats[0]
	}

	return pf
}

// addFlags adds command line flags for configuring the printer
func (f *printFlags) addFlags(cmd *cobra.Command) {
	// We only need an output flag if there is a choice
	if len(f.allowedFormats) > 1 {
		cmd.Flags().StringVarP(&f.outputFormat, "output", "o", f.outputFormat, "output `format`")
		SetFlagValues(cmd, "output", f.allowedFormats...)
	}

	// The header flag only works with formats that require metadata
	for _, allowedFormat := range f.allowedFormats {
		if requiresMeta(allowedFormat) {
			cmd.Flags().BoolVar(&f.noHeader, "no-headers", f.noHeader, "don't print headers")
			break
		}
	}
}

// toPrinter generates a new printer
func (f *printFlags) toPrinter(printer *ResourcePrinter) error {
	outputFormat := strings.ToLower(f.outputFormat)
	for _, allowedFormat := range f.allowedFormats {
		if outputFormat != allowedFormat {
			continue
		}

		switch outputFormat {
		case "json", "yaml":
			*printer = &marshalPrinter{outputFormat: outputFormat}
			return nil
		case "wide", "name", "":
			p := &tablePrinter{
				meta:         f.meta,
				columns:      f.columns,
				headers:      !f.noHeader,
				outputFormat: outputFormat,
			}
			if outputFormat == "name" {
				p.columns = []string{"name"}
				p.headers = false
			}
			*printer = p
			return nil
		case "csv":
			*printer = &csvPrinter{meta: f.meta, headers: !f.noHeader}
			return nil
		}
	}
	return NoPrinterError{OutputFormat: f.outputFormat, AllowedFormats: f.allowedFormats}
}

// marshalPrinter is a printer that generates output using some type of generic encoding (e.g. JSON)
type marshalPrinter struct {
	// outputFormat is the name of the marshaller to use, JSON will be used if it is unrecognized
	outputFormat string
}

// PrintObj will marshal the supplied object
func (p *marshalPrinter) PrintObj(obj interface{}, w io.Writer) error {
	if strings.ToLower(p.outputFormat) == "yaml" {
		output, err := yaml.Marshal(obj)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(output))
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(obj)
}

// tablePrinter is a printer that generates tabular output
type tablePrinter struct {
	// meta is used to extract information about the objects being formatted
	meta TableMeta
	// columns is the list of columns to generate
	columns []string
	// headers determines if the header row should be included
	headers bool
	// outputFormat is the format this printer is generating (used to alter defaults)
	outputFormat string
}

// PrintObj generates the tabular data
func (p *tablePrinter) PrintObj(obj interface{}, w io.Writer) error {
	// Ensure we have a list of rows to iterate over
	rows, err := p.meta.ExtractList(obj)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err = fmt.Fprintln(w, "No results found.")
		return err
	}

	// Ensure we have a list of column names
	columns := p.columns
	if len(columns) == 0 {
		columns = p.meta.Columns(obj, p.outputFormat)
	}

	// Allocate a tab writer and a row buffer
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	buf := make([]string, len(columns))

	// Print headers
	if p.headers {
		for i := range columns {
			buf[i] = p.meta.Header(p.outputFormat, columns[i])
		}
		if err = p.printRow(tw, buf); err != nil {
			return err
		}
	}

	// Print data
	for y := range rows {
		for x := range columns {
			buf[x], err = p.meta.ExtractValue(rows[y], columns[x])
			if err != nil {
				return err
			}
		}
		if err = p.printRow(tw, buf); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// printRow formats a single row
func (p *tablePrinter) printRow(w io.Writer, row []string) error {
	if len(row) == 1 {
		// No trailing tab, no padding
		_, err := fmt.Fprintln(w, row[0])
		return err
	}

	_, err := fmt.Fprintf(w, "%s\t\n", strings.Join(row, "\t"))
	return err
}

// csvPrinter generates Comma Separated Value (CSV) output
type csvPrinter struct {
	// meta is used to extract information about the objects being formatted
	meta TableMeta
	// headers determines if the header row should be included
	headers bool
}

// PrintObj generates the CSV data
func (p *csvPrinter) PrintObj(obj interface{}, w io.Writer) error {
	// Ensure we have a list of rows to iterate over
	rows, err := p.meta.ExtractList(obj)
	if err != nil {
		return err
	}

	// Ensure we have a list of column names
	columns := p.meta.Columns(obj, "csv")

	// Allocate a CSV writer and a record buffer
	cw := csv.NewWriter(w)
	buf := make([]string, len(columns))

	// Print headers
	if p.headers {
		for i := range columns {
			buf[i] = p.meta.Header("csv", columns[i])
		}
		if err = cw.Write(buf); err != nil {
			return err
		}
	}

	// Print data
	for y := range rows {
		for x := range columns {
			if buf[x], err = p.meta.ExtractValue(rows[y], columns[x]); err != nil {
				return err
			}
		}
		if err = cw.Write(buf); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
