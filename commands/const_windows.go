package commands

const (
	_etc = `C:\ProgramData\uhppoted`
	_var = `C:\ProgramData\uhppoted\var`

	DEFAULT_WORKDIR     = _var + `\zoho`
	DEFAULT_CREDENTIALS = _etc + `\zoho\.google\credentials.json`
	DEFAULT_ENV         = _etc + `\zoho\credentials.env`
)
