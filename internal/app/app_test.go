package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/fiksextract/internal/registry"
)

const orderXML = `<?xml version="1.0" encoding="UTF-8"?>
<Order MessageType="ORDERS">
  <OrderNumber>PO-1</OrderNumber>
  <BaseItemDetails>
    <Description>Milk</Description>
    <BuyersProductId>12345</BuyersProductId>
    <QuantityOrdered>10</QuantityOrdered>
    <ProductIdentification>
      <AdditionalProductId><Code>GTIN-FPAK</Code><Text>07032069848975</Text></AdditionalProductId>
    </ProductIdentification>
  </BaseItemDetails>
</Order>`

const shipXML = `<DeliveryNote>
  <DeliveryNoteNumber>DN-1</DeliveryNoteNumber>
  <DeliveryNoteDetails><ParcelIdentification><IdentFrom>B</IdentFrom></ParcelIdentification>
    <BaseItemDetails><Description>Milk</Description></BaseItemDetails></DeliveryNoteDetails>
  <DeliveryNoteDetails><BaseItemDetails><Description>Eggs</Description></BaseItemDetails></DeliveryNoteDetails>
</DeliveryNote>`

func TestRun_SingleInputToStdout(t *testing.T) {
	a, err := New(Config{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var out bytes.Buffer
	a.SetIO(strings.NewReader(orderXML), &out)
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	var got struct {
		OrderNumber string
		Products    []map[string]string
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got.OrderNumber != "PO-1" || got.Products[0]["GTIN-FPAK"] != "7032069848975" {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestRun_Latin1FileToYAMLWithManifest(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "order.xml")
	latin1 := strings.Replace(orderXML, `encoding="UTF-8"`, `encoding="ISO-8859-1"`, 1)
	latin1 = strings.Replace(latin1, "Milk", "Cr\xe8me br\xfbl\xe9e", 1)
	writeFile(t, in, latin1)
	outPath := filepath.Join(dir, "exports", "order.yaml")

	a, err := New(Config{Inputs: []string{in}, OutputPath: outPath, Format: "yaml", Manifest: true, FoldDiacritics: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var got struct {
		Products []map[string]string `yaml:"Products"`
	}
	if err := yaml.Unmarshal(b, &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if name := got.Products[0]["Varenavn"]; name != "Creme brulee" {
		t.Fatalf("Varenavn %q", name)
	}

	mb, err := os.ReadFile(outPath + ".manifest.json")
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m manifest
	if err := json.Unmarshal(mb, &m); err != nil {
		t.Fatalf("manifest json: %v", err)
	}
	if m.Format != registry.FormatOrder || m.Encoding != "windows-1252" || m.Records != 1 || m.Input != in {
		t.Fatalf("unexpected manifest: %+v", m)
	}
}

func TestRun_BatchWritesEveryDocumentAndReportsFailures(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		filepath.Join(dir, "a", "doc.xml"),
		filepath.Join(dir, "b", "doc.xml"),
		filepath.Join(dir, "ship.xml"),
		filepath.Join(dir, "junk.txt"),
	}
	for _, p := range inputs[:2] {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	writeFile(t, inputs[0], orderXML)
	writeFile(t, inputs[1], orderXML)
	writeFile(t, inputs[2], shipXML)
	writeFile(t, inputs[3], "no markup here")

	outDir := filepath.Join(dir, "out")
	a, err := New(Config{Inputs: inputs, OutputDir: outDir, Workers: 2, Placeholder: "sequence", Manifest: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	err = a.Run(context.Background())
	if !errors.Is(err, ErrExtractionFailed) || !IsExtractionError(err) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "1 of 4") {
		t.Fatalf("error should count failures: %v", err)
	}

	entries, err := filepath.Glob(filepath.Join(outDir, "*.json"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	var results, manifests int
	for _, e := range entries {
		if strings.HasSuffix(e, ".manifest.json") {
			manifests++
		} else {
			results++
		}
	}
	if results != 3 || manifests != 3 {
		t.Fatalf("expected 3 results and 3 manifests, got %v", entries)
	}

	b, err := os.ReadFile(filepath.Join(outDir, "ship.json"))
	if err != nil {
		t.Fatalf("read ship.json: %v", err)
	}
	want := `"Packages": {
    "B": [`
	if !strings.Contains(string(b), want) || !strings.Contains(string(b), `"UkjentSSCC-0001"`) {
		t.Fatalf("unexpected shipping output:\n%s", b)
	}
}

func TestRun_SingleFailureIsExtractionError(t *testing.T) {
	a, err := New(Config{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var out bytes.Buffer
	a.SetIO(strings.NewReader(`<Catalog><Book/></Catalog>`), &out)
	err = a.Run(context.Background())
	if !errors.Is(err, registry.ErrUnknownFormat) || !IsExtractionError(err) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be written on failure: %q", out.String())
	}
}

func TestRun_MissingFileIsNotExtractionError(t *testing.T) {
	a, err := New(Config{Inputs: []string{filepath.Join(t.TempDir(), "nope.xml")}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	err = a.Run(context.Background())
	if err == nil || IsExtractionError(err) {
		t.Fatalf("expected plain I/O error, got %v", err)
	}
}

func TestRun_Tags(t *testing.T) {
	a, err := New(Config{Tags: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var out bytes.Buffer
	a.SetIO(strings.NewReader(`<x:Order xmlns:x="urn:o"><x:Line/><Line/></x:Order>`), &out)
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "Line\nOrder\nRoot\n" {
		t.Fatalf("got %q", got)
	}
}

func TestRun_TagsOfSeveralInputs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xml")
	b := filepath.Join(dir, "b.xml")
	writeFile(t, a, `<Order/>`)
	writeFile(t, b, `<Invoice><InvoiceNumber>1</InvoiceNumber></Invoice>`)

	r, err := New(Config{Tags: true, Inputs: []string{a, b}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var out bytes.Buffer
	r.SetIO(nil, &out)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "== " + a + "\nOrder\n\n== " + b + "\nInvoice\nInvoiceNumber\nRoot\n"
	if got := out.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{Format: "csv"}); err == nil {
		t.Fatalf("expected validation error")
	}
}
