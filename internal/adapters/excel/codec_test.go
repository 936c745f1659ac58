// internal/adapters/excel/codec_test.go
package excel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcanales/floreria-be/internal/adapters/excel"
	"github.com/mcanales/floreria-be/internal/core/ports"
	"github.com/mcanales/floreria-be/test/helpers"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec := excel.NewCodec(helpers.TestLogger())

	data, err := codec.Encode([]ports.Sheet{
		{
			Name:   "Inventario",
			Header: []string{"Nombre Producto", "Inventario Apertura", "Inventario Final"},
			Rows: [][]string{
				{"Rosa Roja", "50", "55"},
				{"Tulipán", "20", "18"},
			},
		},
		{
			Name:   "Ventas",
			Header: []string{"Hora", "Productos", "Precio"},
			Rows: [][]string{
				{"10:15:00", "Rosa Roja (x3)", "$80"},
			},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	sheets, err := codec.Decode(data)
	require.NoError(t, err)
	require.Len(t, sheets, 2)

	inventory := sheets["Inventario"]
	require.Len(t, inventory, 2)
	assert.Equal(t, "Rosa Roja", inventory[0]["Nombre Producto"])
	assert.Equal(t, "50", inventory[0]["Inventario Apertura"])
	assert.Equal(t, "55", inventory[0]["Inventario Final"])
	assert.Equal(t, "Tulipán", inventory[1]["Nombre Producto"])

	ventas := sheets["Ventas"]
	require.Len(t, ventas, 1)
	assert.Equal(t, "$80", ventas[0]["Precio"])
}

// The width of the first header column is set on column 1; column numbers
// are 1-based in xlsx/v3 and a 0 would panic inside the library.
func TestCodec_Encode_SingleColumn(t *testing.T) {
	codec := excel.NewCodec(helpers.TestLogger())

	var data []byte
	var err error
	require.NotPanics(t, func() {
		data, err = codec.Encode([]ports.Sheet{{
			Name:   "Inventario",
			Header: []string{"Nombre Producto"},
			Rows:   [][]string{{"Rosa Roja"}},
		}})
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestCodec_Encode_NoSheets(t *testing.T) {
	codec := excel.NewCodec(helpers.TestLogger())

	_, err := codec.Encode(nil)
	require.Error(t, err)
}

func TestCodec_Decode_NotAWorkbook(t *testing.T) {
	codec := excel.NewCodec(helpers.TestLogger())

	_, err := codec.Decode([]byte("plain text, not a zip"))
	require.Error(t, err)
}

// Data rows shorter than the header decode with the missing columns absent,
// and fully blank rows disappear.
func TestCodec_Decode_RaggedRows(t *testing.T) {
	codec := excel.NewCodec(helpers.TestLogger())

	data, err := codec.Encode([]ports.Sheet{{
		Name:   "Inventario",
		Header: []string{"Nombre Producto", "Stock Actual", "Notas"},
		Rows: [][]string{
			{"Girasol", "12"},
			{"", "", ""},
		},
	}})
	require.NoError(t, err)

	sheets, err := codec.Decode(data)
	require.NoError(t, err)
	rows := sheets["Inventario"]
	require.Len(t, rows, 1)
	assert.Equal(t, "12", rows[0]["Stock Actual"])
	_, hasNotes := rows[0]["Notas"]
	assert.False(t, hasNotes)
}
