package ofx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/riskline/internal/model"
)

const sampleStatementOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-12000.00
<FITID>2024011501
<NAME>WIRE TRANSFER GLOBAL EXPORTS LTD
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-450.00
<FITID>2024012001
<NAME>Riverside Grocers
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestImportBankStatement(t *testing.T) {
	importer := NewImporter("IR", nil)

	cases, err := importer.Import(strings.NewReader(sampleStatementOFX))
	require.NoError(t, err)
	require.Len(t, cases, 2)

	wire := cases[0]
	assert.Equal(t, "GLOBAL EXPORTS LTD", wire.CustomerName)
	assert.Equal(t, 12000.0, wire.Amount)
	assert.Equal(t, "IR", wire.Country)
	assert.Equal(t, 0.64, wire.RiskScore)
	assert.Equal(t, model.StatusNew, wire.Status)
	assert.NotEmpty(t, wire.ID)
	assert.Equal(t, 2024, wire.CreatedAt.Year())

	grocery := cases[1]
	assert.Equal(t, "Riverside Grocers", grocery.CustomerName)
	assert.Equal(t, 450.0, grocery.Amount)
}

func TestImportDefaultsCountry(t *testing.T) {
	importer := NewImporter("", nil)
	cases, err := importer.Import(strings.NewReader(sampleStatementOFX))
	require.NoError(t, err)
	require.NotEmpty(t, cases)
	assert.Equal(t, "US", cases[0].Country)
	assert.Equal(t, 0.13, cases[1].RiskScore)
}

func TestImportSkipsZeroAmountTransactions(t *testing.T) {
	zeroLine := `<STMTTRN>
<TRNTYPE>OTHER
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>0.00
<FITID>2024012501
<NAME>VOIDED ENTRY
</STMTTRN>
</BANKTRANLIST>`
	statement := strings.Replace(sampleStatementOFX, "</BANKTRANLIST>", zeroLine, 1)

	importer := NewImporter("US", nil)
	cases, err := importer.Import(strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, cases, 2)

	// Every surviving case must be seedable.
	for i := range cases {
		assert.NoError(t, cases[i].Validate())
		assert.NotEqual(t, "VOIDED ENTRY", cases[i].CustomerName)
	}
}

func TestImportInvalidData(t *testing.T) {
	importer := NewImporter("US", nil)
	_, err := importer.Import(strings.NewReader("not an ofx document"))
	assert.Error(t, err)
}

func TestPreprocessFixesSGMLQuirks(t *testing.T) {
	input := "\n  <OFX\n<SEVERITY>Info</SEVERITY>"
	got := preprocess(input)
	assert.True(t, strings.HasPrefix(got, "<OFX>"))
	assert.Contains(t, got, "<SEVERITY>INFO</SEVERITY>")
}

func TestCounterpartyNameFallbacks(t *testing.T) {
	assert.True(t, isGenericDescription("DEBIT"))
	assert.False(t, isGenericDescription("ACME CORP"))
}
