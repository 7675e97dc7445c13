package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rezonia/invoice-renderer/internal/model"
)

// LoadSalesFile reads a JSON or YAML fixture holding one sale or a list
func LoadSalesFile(path string) ([]model.Sale, error) {
	var sales []model.Sale
	if err := decodeFile(path, &sales, func(one []byte) error {
		var s model.Sale
		if err := json.Unmarshal(one, &s); err != nil {
			return err
		}
		sales = []model.Sale{s}
		return nil
	}); err != nil {
		return nil, err
	}
	for i := range sales {
		if sales[i].ID == "" {
			return nil, model.NewValidationError(fmt.Sprintf("sales[%d].id", i), nil, "required", "fixture sale has no id")
		}
	}
	return sales, nil
}

// LoadBranchesFile reads a JSON or YAML fixture holding one branch or a list
func LoadBranchesFile(path string) ([]model.Branch, error) {
	var branches []model.Branch
	if err := decodeFile(path, &branches, func(one []byte) error {
		var b model.Branch
		if err := json.Unmarshal(one, &b); err != nil {
			return err
		}
		branches = []model.Branch{b}
		return nil
	}); err != nil {
		return nil, err
	}
	for i := range branches {
		if branches[i].ID == "" {
			return nil, model.NewValidationError(fmt.Sprintf("branches[%d].id", i), nil, "required", "fixture branch has no id")
		}
	}
	return branches, nil
}

// LoadSale reads a fixture that must hold exactly one sale
func LoadSale(path string) (*model.Sale, error) {
	sales, err := LoadSalesFile(path)
	if err != nil {
		return nil, err
	}
	if len(sales) != 1 {
		return nil, model.NewValidationError("sales", len(sales), "single", fmt.Sprintf("%s must hold exactly one sale", path))
	}
	return &sales[0], nil
}

// LoadBranch reads a fixture that must hold exactly one branch
func LoadBranch(path string) (*model.Branch, error) {
	branches, err := LoadBranchesFile(path)
	if err != nil {
		return nil, err
	}
	if len(branches) != 1 {
		return nil, model.NewValidationError("branches", len(branches), "single", fmt.Sprintf("%s must hold exactly one branch", path))
	}
	return &branches[0], nil
}

// decodeFile decodes a list into list, or hands a single object to one.
// YAML is converted to JSON first so decimal amounts decode the same way.
func decodeFile(path string, list interface{}, one func([]byte) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse fixture %s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return fmt.Errorf("failed to convert fixture %s: %w", path, err)
		}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, list)
	} else {
		err = one(trimmed)
	}
	if err != nil {
		return fmt.Errorf("failed to decode fixture %s: %w", path, err)
	}
	return nil
}
