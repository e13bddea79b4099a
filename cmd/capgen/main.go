// Command capgen generates the capability pin types of package gpio from the
// capability table.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"log"
	"os"
	"text/template"

	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
)

var (
	in  string
	out string
)

func init() {
	flag.StringVar(&in, "in", "capabilities.yaml", "input capability table")
	flag.StringVar(&out, "out", "pins_gen.go", "output Go file")
	flag.Parse()
}

var pinsTemplate = template.Must(template.New("pins").Funcs(template.FuncMap{
	"marker": func(c gpio.Capability) string {
		if c == gpio.CapHardwarePWM {
			return "hardwarePWM"
		}
		return "gpioClock"
	},
	"constraint": func(c gpio.Capability) string {
		if c == gpio.CapHardwarePWM {
			return "HardwarePWM"
		}
		return "GPIOClock"
	},
}).Parse(`// Code generated by capgen from capabilities.yaml. DO NOT EDIT.

package gpio
{{range $t := .}}{{range .Pins}}
// {{$t.Scheme}}{{.Number}} is {{$t.Numbering}} pin {{.Number}}, {{.Function}} (BCM {{.BCM}}).
type {{$t.Scheme}}{{.Number}} struct{}

func ({{$t.Scheme}}{{.Number}}) Number() int { return {{.Number}} }

func ({{$t.Scheme}}{{.Number}}) scheme() {{$t.Scheme}} { return {{$t.Scheme}}{} }

func ({{$t.Scheme}}{{.Number}}) {{marker .Capability}}() {}

func ({{$t.Scheme}}{{.Number}}) String() string { return "{{$t.Numbering}}:{{.Number}}" }

var _ {{constraint .Capability}}[{{$t.Scheme}}] = {{$t.Scheme}}{{.Number}}{}
{{end}}{{end}}`))

func main() {
	data, err := os.ReadFile(in)
	if err != nil {
		log.Fatal("file io error: ", err)
	}

	tables, err := gpio.ParseCapabilities(data)
	if err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if err := pinsTemplate.Execute(&buf, tables); err != nil {
		log.Fatal("template error: ", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		log.Fatal("format error: ", err)
	}

	if err := os.WriteFile(out, src, 0644); err != nil {
		log.Fatal("file io error: ", err)
	}

	fmt.Printf("wrote %s\n", out)
}
