package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  *string `json:"name" binding:"required,personname,min=2,max=100"`
	Phone *string `json:"phone" binding:"omitempty,uzphone,len=13"`
	Line  string  `json:"line" binding:"required,addressline"`
}

func ptr(s string) *string { return &s }

func TestStruct_CustomTags(t *testing.T) {
	ok := sample{Name: ptr("Ольга Іванова-Smith"), Phone: ptr("+998901234567"), Line: "5, Main st."}
	require.NoError(t, Struct(&ok))

	bad := sample{Name: ptr("R2D2"), Phone: ptr("+99890123456"), Line: "<b>"}
	details := ToDetails(Struct(&bad))
	require.Len(t, details, 3)
	assert.Equal(t, ValidationsError{Field: "name", Tag: "personname", Value: "R2D2", Message: "may contain only letters, spaces, dots and hyphens"}, details[0])
	assert.Equal(t, "phone", details[1].Field)
	assert.Equal(t, "uzphone", details[1].Tag)
	assert.Equal(t, "line", details[2].Field)
}

func TestStruct_OptionalPointerSkipped(t *testing.T) {
	assert.NoError(t, Struct(&sample{Name: ptr("Al"), Line: "Main"}))
}

func TestStruct_LengthCountsRunes(t *testing.T) {
	err := Struct(&sample{Name: ptr("Ян"), Line: "x"})
	assert.NoError(t, err)

	err = Struct(&sample{Name: ptr("Я"), Line: "x"})
	details := ToDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, "min", details[0].Tag)
	assert.Equal(t, "must be at least 2 characters long", details[0].Message)
}

func TestToDetails_JSONErrors(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	err := json.Unmarshal([]byte(`{"name":1}`), &v)
	assert.Equal(t, []ValidationsError{{Field: "name", Tag: "type", Message: "must be a string"}}, ToDetails(err))

	err = json.Unmarshal([]byte(`{`), &v)
	assert.Equal(t, "json", ToDetails(err)[0].Tag)

	assert.Nil(t, ToDetails(nil))
}
