package commands

const (
	_etc = "/usr/local/etc/uhppoted"
	_var = "/usr/local/var/uhppoted"

	DEFAULT_WORKDIR     = _var + "/zoho"
	DEFAULT_CREDENTIALS = _etc + "/zoho/.google/credentials.json"
	DEFAULT_ENV         = _etc + "/zoho/credentials.env"
)
