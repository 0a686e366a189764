package ingest

import (
	"context"
	"testing"

	"github.com/Igordev7/PricetireForce/internal/model"
	"github.com/Igordev7/PricetireForce/internal/normalize"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestPipeline(products *stubProductRepo, history *stubHistoryRepo) *Pipeline {
	return NewPipeline(
		normalize.New(normalize.DefaultTables()),
		NewColumnIdentifier(DefaultHeaderTables()),
		products,
		history,
		Config{DefaultCity: "São Paulo", DefaultRegion: "SE"},
	)
}

func TestIngestEndToEnd(t *testing.T) {
	products := newStubProductRepo()
	history := &stubHistoryRepo{}
	p := newTestPipeline(products, history)

	csv := "Marca,Modelo,Medida,Empresa,Preco_Sell_Out\n" +
		"Pirelli,P1,185/65,LojaA,\"350,00\"\n" +
		"pirelli,p1,185/65,LojaB,\"340,00\"\n" +
		"Goodyear,G1,195/60,LojaA,400\n"

	summary, err := p.Ingest(context.Background(), []byte(csv), "precos.csv")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Imported)
	assert.Equal(t, 0, summary.Skipped)
	require.Len(t, history.records, 3)

	// Case-insensitive identity: the first two rows share one product.
	assert.Len(t, products.byCode, 2)
	assert.Equal(t, history.records[0].ProductID, history.records[1].ProductID)
	assert.NotEqual(t, history.records[0].ProductID, history.records[2].ProductID)

	assert.True(t, decimal.NewFromFloat(350).Equal(history.records[0].Price))
	assert.True(t, decimal.NewFromFloat(340).Equal(history.records[1].Price))
	assert.True(t, decimal.NewFromFloat(400).Equal(history.records[2].Price))
	assert.Equal(t, "Lojaa", history.records[0].Competitor)
	assert.Equal(t, model.SourceUpload, history.records[0].Source)
}

func TestIngestRowIsolation(t *testing.T) {
	products := newStubProductRepo()
	history := &stubHistoryRepo{}
	p := newTestPipeline(products, history)

	// Row 3 has no usable price — it must be skipped without aborting.
	csv := "Marca,Modelo,Medida,Empresa,Preco_Sell_Out\n" +
		"Pirelli,P1,185/65,LojaA,\"350,00\"\n" +
		"Michelin,M1,205/55,LojaB,preço a confirmar\n" +
		"Goodyear,G1,195/60,LojaA,400\n"

	summary, err := p.Ingest(context.Background(), []byte(csv), "precos.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Skips, 1)
	assert.Equal(t, 3, summary.Skips[0].Line)
	assert.Contains(t, summary.Skips[0].Reason, "preço")
}

func TestIngestFormulaPriceSkipped(t *testing.T) {
	products := newStubProductRepo()
	history := &stubHistoryRepo{}
	p := newTestPipeline(products, history)

	csv := "Marca,Modelo,Medida,Empresa,Preco_Sell_Out\n" +
		"Pirelli,P1,185/65,LojaA,=B2*C2\n"

	summary, err := p.Ingest(context.Background(), []byte(csv), "precos.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
}

func TestIngestSemicolonDelimiter(t *testing.T) {
	products := newStubProductRepo()
	history := &stubHistoryRepo{}
	p := newTestPipeline(products, history)

	csv := "Marca;Modelo;Medida;Empresa;Preco_Sell_Out\n" +
		"Pirelli;P1;185/65;LojaA;350,00\n"

	summary, err := p.Ingest(context.Background(), []byte(csv), "precos.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.True(t, decimal.NewFromFloat(350).Equal(history.records[0].Price))
}

func TestIngestFilenameLocale(t *testing.T) {
	products := newStubProductRepo()
	history := &stubHistoryRepo{}
	p := newTestPipeline(products, history)

	csv := "Marca,Modelo,Medida,Empresa,Preco_Sell_Out\n" +
		"Pirelli,P1,185/65,LojaA,\"350,00\"\n"

	summary, err := p.Ingest(context.Background(), []byte(csv), "precos_goiania_jan.csv")
	require.NoError(t, err)
	assert.Equal(t, "Goiânia", summary.City)
	assert.Equal(t, "CO", summary.Region)
	assert.Equal(t, "CO", history.records[0].Region)
	assert.Equal(t, "Goiânia", history.records[0].City)

	summary, err = p.Ingest(context.Background(), []byte(csv), "precos.csv")
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", summary.City)
	assert.Equal(t, "SE", summary.Region)
}

func TestIngestLocationColumnOverride(t *testing.T) {
	products := newStubProductRepo()
	history := &stubHistoryRepo{}
	p := newTestPipeline(products, history)

	csv := "Marca,Modelo,Medida,Empresa,Preco_Sell_Out,UF\n" +
		"Pirelli,P1,185/65,LojaA,\"350,00\",PR\n" +
		"Pirelli,P1,185/65,LojaB,\"360,00\",\n"

	_, err := p.Ingest(context.Background(), []byte(csv), "precos.csv")
	require.NoError(t, err)
	require.Len(t, history.records, 2)
	assert.Equal(t, "S", history.records[0].Region)
	// Blank location keeps the file-level default.
	assert.Equal(t, "SE", history.records[1].Region)
}

func TestIngestFullSchema(t *testing.T) {
	products := newStubProductRepo()
	history := &stubHistoryRepo{}
	p := newTestPipeline(products, history)

	csv := "Medida,Marca,Modelo,Marca,Modelo,Aro,Empresa,Preço Sell Out (R$),Custo,MKP,Origem,Data,Cidade\n" +
		"185/65,Pirelli,P1,Pirelli BR,Cinturato,R14,Pneus Sul Ltda,\"R$ 350,00\",\"280,00\",,nacional,25/12/2024,Campinas\n"

	summary, err := p.Ingest(context.Background(), []byte(csv), "precos.csv")
	require.NoError(t, err)
	require.Equal(t, 1, summary.Imported)

	rec := history.records[0]
	assert.Equal(t, "Pneus Sul", rec.Competitor)
	assert.Equal(t, "Pirelli BR", rec.CompetitorBrand)
	assert.Equal(t, "Cinturato", rec.CompetitorModel)
	assert.True(t, decimal.NewFromFloat(280).Equal(rec.SellIn))
	assert.True(t, decimal.NewFromFloat(0.25).Equal(rec.Markup))
	assert.Equal(t, model.OriginNacional, rec.Origin)
	assert.Equal(t, "Campinas", rec.City)
	assert.Equal(t, 2024, rec.DateCollected.Year())

	prod := products.byCode[UniqueCode("PIRELLI", "P1", "185/65")]
	require.NotNil(t, prod)
	assert.Equal(t, "14", prod.Rim)
}

func TestIngestXLSX(t *testing.T) {
	products := newStubProductRepo()
	history := &stubHistoryRepo{}
	p := newTestPipeline(products, history)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Marca", "Modelo", "Medida", "Empresa", "Preco_Sell_Out"},
		{"Pirelli", "P1", "185/65", "LojaA", "350,00"},
		{"Goodyear", "G1", "195/60", "LojaB", "400"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	summary, err := p.Ingest(context.Background(), buf.Bytes(), "precos.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Len(t, products.byCode, 2)
}

func TestIngestUnreadableFile(t *testing.T) {
	p := newTestPipeline(newStubProductRepo(), &stubHistoryRepo{})

	_, err := p.Ingest(context.Background(), []byte{0x00, 0x01}, "precos.xlsx")
	assert.ErrorIs(t, err, ErrUnreadableFile)

	_, err = p.Ingest(context.Background(), []byte("a,b\n1,2\n"), "precos.pdf")
	assert.ErrorIs(t, err, ErrUnreadableFile)
}

func TestIngestColumnsNotIdentifiedWritesNothing(t *testing.T) {
	products := newStubProductRepo()
	history := &stubHistoryRepo{}
	p := newTestPipeline(products, history)

	csv := "Coluna1,Coluna2\nfoo,bar\n"
	_, err := p.Ingest(context.Background(), []byte(csv), "precos.csv")
	assert.ErrorIs(t, err, ErrColumnsNotIdentified)
	assert.Empty(t, history.records)
	assert.Empty(t, products.byCode)
}

func TestIngestBlankRowsSkipped(t *testing.T) {
	products := newStubProductRepo()
	history := &stubHistoryRepo{}
	p := newTestPipeline(products, history)

	csv := "Marca,Modelo,Medida,Empresa,Preco_Sell_Out\n" +
		"Pirelli,P1,185/65,LojaA,\"350,00\"\n" +
		",,,,\n"

	summary, err := p.Ingest(context.Background(), []byte(csv), "precos.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
}
