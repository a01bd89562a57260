package societary

// SampleJSON is an example registry record for trying out the editor.
const SampleJSON = `{
  "company_name": "EXEMPLO SOCIEDADE LTDA",
  "cnpj": "12.345.678/0001-90",
  "nire": "12345678901",
  "address": "Rua Exemplo, 123, Centro, São Paulo/SP",
  "zip_code": "01234-567",
  "partners": [
    {
      "partner_name": "João Silva",
      "cpf_cnpj": "123.456.789-10",
      "represented_by": "",
      "address": "Rua A, 100, São Paulo/SP",
      "participation_value": 10000.0,
      "qualification": "Sócio Administrador"
    },
    {
      "partner_name": "Maria Santos",
      "cpf_cnpj": "987.654.321-00",
      "represented_by": "",
      "address": "Rua B, 200, Rio de Janeiro/RJ",
      "participation_value": 15000.0,
      "qualification": "Sócia"
    }
  ],
  "new_partners": ["Carlos Oliveira"],
  "leaving_partners": ["Pedro Costa"]
}`

// Sample returns a fresh copy of the example record.
func Sample() *Record {
	r, err := Parse([]byte(SampleJSON))
	if err != nil {
		panic("societary: invalid sample record: " + err.Error())
	}
	return r
}
