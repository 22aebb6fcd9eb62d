package domain

import (
	"path"
	"strings"
)

// Parameter names accepted by every transport. The short forms match the
// servlet this tool replaces; the long forms are accepted as aliases.
const (
	ParamBasePath      = "basePath"
	ParamPropertyName  = "propertyName"
	ParamOriginal      = "original"
	ParamOriginalValue = "originalValue"
	ParamTarget        = "target"
	ParamTargetValue   = "targetValue"
)

// MigrationRequest is the immutable input of a single run.
type MigrationRequest struct {
	BasePath      string `json:"base_path"`
	PropertyName  string `json:"property_name"`
	OriginalValue string `json:"original_value"`
	TargetValue   string `json:"target_value"`
}

// Validate reports every required field that is empty. BasePath and
// PropertyName count as empty when they are blank. TargetValue may be
// empty: replacing with "" removes the substring.
func (r MigrationRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.BasePath) == "" {
		missing = append(missing, ParamBasePath)
	}
	if strings.TrimSpace(r.PropertyName) == "" {
		missing = append(missing, ParamPropertyName)
	}
	if r.OriginalValue == "" {
		missing = append(missing, ParamOriginal)
	}
	if len(missing) > 0 {
		return NewValidationError(missing...)
	}
	return nil
}

// Normalized returns a copy with BasePath cleaned to an absolute repository
// path and PropertyName trimmed. Blank paths become empty so Validate still
// catches them.
func (r MigrationRequest) Normalized() MigrationRequest {
	r.BasePath = NormalizePath(r.BasePath)
	r.PropertyName = strings.TrimSpace(r.PropertyName)
	return r
}

// ParseRequest builds a request from transport parameters. lookup reports
// whether a parameter was supplied at all, which is how an absent target is
// told apart from an empty one.
func ParseRequest(lookup func(name string) (string, bool)) (MigrationRequest, error) {
	get := func(names ...string) (string, bool) {
		for _, n := range names {
			if v, ok := lookup(n); ok {
				return v, true
			}
		}
		return "", false
	}

	basePath, _ := get(ParamBasePath)
	propertyName, _ := get(ParamPropertyName)
	original, _ := get(ParamOriginal, ParamOriginalValue)
	target, targetSet := get(ParamTarget, ParamTargetValue)

	req := MigrationRequest{
		BasePath:      strings.TrimSpace(basePath),
		PropertyName:  strings.TrimSpace(propertyName),
		OriginalValue: original,
		TargetValue:   target,
	}

	var missing []string
	if err := req.Validate(); err != nil {
		missing = append(missing, err.(*ValidationError).Fields...)
	}
	if !targetSet {
		missing = append(missing, ParamTarget)
	}
	if len(missing) > 0 {
		return req, NewValidationError(missing...)
	}
	return req.Normalized(), nil
}

// NormalizePath cleans a repository path and roots it at "/".
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return path.Clean("/" + p)
}

// IsWithin reports whether nodePath is base itself or one of its descendants.
func IsWithin(nodePath, base string) bool {
	if base == "/" {
		return strings.HasPrefix(nodePath, "/")
	}
	return nodePath == base || strings.HasPrefix(nodePath, base+"/")
}
