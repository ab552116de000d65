package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName accepts bare names such as "cv". Separators and dots are
// rejected so a name can neither leave its kind's directory nor change the
// extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
