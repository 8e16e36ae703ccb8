package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/OndrejVasicek/go-ppl-myapi/ppl"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var shipmentFileFlag string

var shipmentCmd = &cobra.Command{
	Use:   "shipment",
	Short: "Create shipment batches and inspect their state",
}

var shipmentCreateCmd = &cobra.Command{
	Use:   "create -f shipments.yaml",
	Short: "Submit a shipment batch from a YAML file",
	Long: `Read shipments from a YAML file and submit them as one batch.
Prints the batch path to poll with "ppl shipment batch".

The file holds a list of shipments plus optional label settings:

  label:
    format: Pdf
    dpi: 300
  shipments:
    - productType: BUSS
      sender: { name: "...", city: "...", ... }
      recipient: { name: "...", city: "...", ... }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readBatchFile(shipmentFileFlag)
		if err != nil {
			return err
		}
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		batch, err := client.CreateShipments(cmd.Context(), *req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), batch)
		return nil
	},
}

var shipmentBatchCmd = &cobra.Command{
	Use:   "batch <path>",
	Short: "Print the state of a shipment batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		batch, err := client.GetShipmentBatch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, item := range batch.Items {
			fmt.Fprintf(out, "%s  %s  %s\n",
				item.ReferenceID, colorizeState(item.ImportState), item.ShipmentNumber)
			if item.ErrorMessage != "" {
				fmt.Fprintf(out, "    %s\n", item.ErrorMessage)
			}
		}
		if batch.Complete() {
			fmt.Fprintln(out, "batch complete")
		}
		return nil
	},
}

// readBatchFile parses a shipment batch definition from YAML. The ppl
// types carry only json tags, so the YAML keys are mapped explicitly.
func readBatchFile(path string) (*ppl.ShipmentBatchRequest, error) {
	if path == "" {
		return nil, errors.New("cli: shipment file missing, pass -f")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: read shipments: %w", err)
	}

	var file batchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("cli: parse shipments %s: %w", path, err)
	}
	return file.request(), nil
}

type batchFile struct {
	Label     labelFile      `yaml:"label"`
	Shipments []shipmentFile `yaml:"shipments"`
}

type labelFile struct {
	Format string `yaml:"format"`
	DPI    int    `yaml:"dpi"`
}

type shipmentFile struct {
	ReferenceID    string       `yaml:"referenceId"`
	ProductType    string       `yaml:"productType"`
	Note           string       `yaml:"note"`
	WeightKg       float64      `yaml:"weight"`
	Sender         *addressFile `yaml:"sender"`
	Recipient      addressFile  `yaml:"recipient"`
	CashOnDelivery *codFile     `yaml:"cashOnDelivery"`
}

type addressFile struct {
	Name    string `yaml:"name"`
	Street  string `yaml:"street"`
	City    string `yaml:"city"`
	ZipCode string `yaml:"zipCode"`
	Country string `yaml:"country"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

type codFile struct {
	Price          float64 `yaml:"price"`
	Currency       string  `yaml:"currency"`
	VariableSymbol string  `yaml:"variableSymbol"`
}

func (f batchFile) request() *ppl.ShipmentBatchRequest {
	req := &ppl.ShipmentBatchRequest{
		Shipments: make([]ppl.Shipment, 0, len(f.Shipments)),
	}
	if f.Label.Format != "" || f.Label.DPI != 0 {
		req.LabelSettings = &ppl.LabelSettings{Format: f.Label.Format, DPI: f.Label.DPI}
	}
	for _, s := range f.Shipments {
		req.Shipments = append(req.Shipments, s.shipment())
	}
	return req
}

func (f shipmentFile) shipment() ppl.Shipment {
	s := ppl.Shipment{
		ReferenceID: f.ReferenceID,
		ProductType: f.ProductType,
		Note:        f.Note,
		WeightKg:    f.WeightKg,
		Recipient:   f.Recipient.address(),
	}
	if f.Sender != nil {
		sender := f.Sender.address()
		s.Sender = &sender
	}
	if f.CashOnDelivery != nil {
		s.CashOnDelivery = &ppl.CashOnDelivery{
			Price:          f.CashOnDelivery.Price,
			Currency:       f.CashOnDelivery.Currency,
			VariableSymbol: f.CashOnDelivery.VariableSymbol,
		}
	}
	return s
}

func (f addressFile) address() ppl.Address {
	return ppl.Address{
		Name:    f.Name,
		Street:  f.Street,
		City:    f.City,
		ZipCode: f.ZipCode,
		Country: f.Country,
		Phone:   f.Phone,
		Email:   f.Email,
	}
}

func colorizeState(state string) string {
	switch state {
	case ppl.ImportStateComplete:
		return color.GreenString(state)
	case ppl.ImportStateError:
		return color.RedString(state)
	default:
		return color.YellowString(state)
	}
}

func init() {
	shipmentCreateCmd.Flags().StringVarP(&shipmentFileFlag, "file", "f", "", "YAML file with the shipments to create")
	_ = shipmentCreateCmd.MarkFlagRequired("file")

	shipmentCmd.AddCommand(shipmentCreateCmd)
	shipmentCmd.AddCommand(shipmentBatchCmd)
}
