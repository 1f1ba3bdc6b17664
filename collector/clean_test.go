package collector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCleanPipeline_Clean(t *testing.T) {
	p := NewCleanPipeline(&MemStore{}, nil)

	got := p.Clean(MerchantRecord{
		MerchantName:   "  ООО\n  Ромашка — ",
		CategoryCode:   " 5411 ",
		Address:        "\tг. Москва,\n ул. Ленина, 1 ",
		GeoCoordinates: " 55.75, 37.61 ° ",
		OrgName:        "— Ромашка —",
		OrgDescription: "Сеть<br> магазинов",
		SourceURL:      " https://merchantpoint.ru/merchant/1 ",
	})

	assert.Equal(t, MerchantRecord{
		MerchantName:   "ООО Ромашка",
		CategoryCode:   "5411",
		Address:        "г. Москва, ул. Ленина, 1",
		GeoCoordinates: "55.75, 37.61",
		OrgName:        "Ромашка",
		OrgDescription: "Сеть магазинов",
		SourceURL:      "https://merchantpoint.ru/merchant/1",
	}, got)
}

func TestCleanPipeline_InvalidCode(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := NewCleanPipeline(&MemStore{}, zap.New(core))

	for _, code := range []string{"541", "54111", "MCC 5411", "abcd"} {
		got := p.Clean(MerchantRecord{CategoryCode: code})
		assert.Empty(t, got.CategoryCode, code)
	}
	assert.Equal(t, 4, logs.FilterMessage("invalid category code").Len())

	got := p.Clean(MerchantRecord{CategoryCode: ""})
	assert.Empty(t, got.CategoryCode)
	assert.Equal(t, 4, logs.Len())
}

func TestCleanPipeline_DescriptionLimit(t *testing.T) {
	p := NewCleanPipeline(&MemStore{}, nil)

	got := p.Clean(MerchantRecord{OrgDescription: strings.Repeat("а", 800)})
	assert.Equal(t, 500, len([]rune(got.OrgDescription)))
	assert.True(t, strings.HasSuffix(got.OrgDescription, "..."))
}

func TestCleanPipeline_SaveForwards(t *testing.T) {
	next := &MemStore{}
	p := NewCleanPipeline(next, nil)

	require.NoError(t, p.Save(
		MerchantRecord{MerchantName: " a "},
		MerchantRecord{MerchantName: "b\n"},
	))
	require.NoError(t, p.Close())

	recs := next.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].MerchantName)
	assert.Equal(t, "b", recs[1].MerchantName)
	assert.True(t, next.Closed())
}

func TestMerchantRecord_Values(t *testing.T) {
	r := MerchantRecord{
		MerchantName:   "n",
		CategoryCode:   "c",
		Address:        "a",
		GeoCoordinates: "g",
		OrgName:        "o",
		OrgDescription: "d",
		SourceURL:      "u",
	}
	assert.Equal(t, []string{"n", "c", "a", "g", "o", "d", "u"}, r.Values())
	assert.Len(t, Columns, len(r.Values()))
}
