package domain_test

import (
	"errors"
	"testing"

	"github.com/abdidvp/contentmod/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(m map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

func TestMigrationRequest_Validate_OK(t *testing.T) {
	req := domain.MigrationRequest{
		BasePath:      "/content/site",
		PropertyName:  "title",
		OriginalValue: "foo",
		TargetValue:   "",
	}
	assert.NoError(t, req.Validate())
}

func TestMigrationRequest_Validate_ListsAllMissing(t *testing.T) {
	err := domain.MigrationRequest{TargetValue: "x"}.Validate()
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"basePath", "propertyName", "original"}, verr.Fields)
	assert.Contains(t, err.Error(), "missing parameters")
}

func TestMigrationRequest_Validate_BlankIsMissing(t *testing.T) {
	err := domain.MigrationRequest{BasePath: "   ", PropertyName: "\t", OriginalValue: "foo"}.Validate()

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"basePath", "propertyName"}, verr.Fields)
}

func TestParseRequest_AllPresent(t *testing.T) {
	req, err := domain.ParseRequest(params(map[string]string{
		"basePath":     "content/site/",
		"propertyName": "sling:resourceType",
		"original":     "old/",
		"target":       "new/",
	}))
	require.NoError(t, err)
	assert.Equal(t, "/content/site", req.BasePath)
	assert.Equal(t, "sling:resourceType", req.PropertyName)
	assert.Equal(t, "old/", req.OriginalValue)
	assert.Equal(t, "new/", req.TargetValue)
}

func TestParseRequest_EmptyTargetIsValid(t *testing.T) {
	req, err := domain.ParseRequest(params(map[string]string{
		"basePath": "/content", "propertyName": "title", "original": "Draft: ", "target": "",
	}))
	require.NoError(t, err)
	assert.Equal(t, "", req.TargetValue)
}

func TestParseRequest_AbsentTargetIsMissing(t *testing.T) {
	_, err := domain.ParseRequest(params(map[string]string{
		"basePath": "/content", "propertyName": "title", "original": "foo",
	}))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"target"}, verr.Fields)
}

func TestParseRequest_AbsentPropertyName(t *testing.T) {
	_, err := domain.ParseRequest(params(map[string]string{
		"basePath": "/content", "original": "foo", "target": "bar",
	}))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"propertyName"}, verr.Fields)
}

func TestParseRequest_LongAliases(t *testing.T) {
	req, err := domain.ParseRequest(params(map[string]string{
		"basePath": "/content", "propertyName": "title", "originalValue": "a", "targetValue": "b",
	}))
	require.NoError(t, err)
	assert.Equal(t, "a", req.OriginalValue)
	assert.Equal(t, "b", req.TargetValue)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "", domain.NormalizePath(""))
	assert.Equal(t, "", domain.NormalizePath("   "))
	assert.Equal(t, "/", domain.NormalizePath("/"))
	assert.Equal(t, "/content/site", domain.NormalizePath("content/site/"))
	assert.Equal(t, "/content/site", domain.NormalizePath("/content//site/./"))
}

func TestIsWithin(t *testing.T) {
	assert.True(t, domain.IsWithin("/content/site", "/content/site"))
	assert.True(t, domain.IsWithin("/content/site/en", "/content/site"))
	assert.False(t, domain.IsWithin("/content/site2", "/content/site"))
	assert.False(t, domain.IsWithin("/content", "/content/site"))
	assert.True(t, domain.IsWithin("/anything", "/"))
}
