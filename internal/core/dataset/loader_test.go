package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zomato.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	csv := `name,online_order,rate,votes,location,cuisines,approx_cost(for two people)
Jalsa,Yes,4.1/5,775,Banashankari,"North Indian, Chinese","1,200"
Spice Elephant,Yes,4.1/5,787,Banashankari,"Chinese, Thai",800
Onesta,Yes,NEW,0,BTM,"Pizza, Cafe",600
`
	store, err := Load(writeTempCSV(t, csv))
	require.NoError(t, err)

	assert.Equal(t, 3, store.Len())

	records := store.Records()
	assert.Equal(t, "Jalsa", records[0].Name)
	assert.Equal(t, 4.1, records[0].Rating)
	assert.Equal(t, 1200.0, records[0].PriceForTwo)
	assert.Equal(t, 775, records[0].Votes)
	assert.Equal(t, 0.0, records[2].Rating)

	// 地區與菜系清單排序且去重
	assert.Equal(t, []string{"BTM", "Banashankari"}, store.Localities())
	assert.Equal(t, []string{"Cafe", "Chinese", "North Indian", "Pizza", "Thai"}, store.Cuisines())
}

func TestLoadColumnFallbacks(t *testing.T) {
	// 欄名不同來源會變動，依候選子字串解析
	csv := `restaurant name,rating,votes,city,cuisine,price
Meghana Foods,4.4/5,4401,Residency Road,Biryani,600
`
	store, err := Load(writeTempCSV(t, csv))
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	rec := store.Records()[0]
	assert.Equal(t, "Meghana Foods", rec.Name)
	assert.Equal(t, 4.4, rec.Rating)
	assert.Equal(t, "Residency Road", rec.Locality)
}

func TestLoadMissingColumn(t *testing.T) {
	csv := `name,rate,location,cuisines,cost
Jalsa,4.1/5,Banashankari,North Indian,800
`
	_, err := Load(writeTempCSV(t, csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "votes")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoadRaggedRows(t *testing.T) {
	// 欄位數不足的資料列以空字串補齊，不會中斷載入
	csv := `name,rate,votes,location,cuisines,cost
Jalsa,4.1/5,775,Banashankari,North Indian,800
Short Row,3.0/5
`
	store, err := Load(writeTempCSV(t, csv))
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	rec := store.Records()[1]
	assert.Equal(t, "Short Row", rec.Name)
	assert.Equal(t, 3.0, rec.Rating)
	assert.Equal(t, "nan", rec.LocalityNormalized)
}
