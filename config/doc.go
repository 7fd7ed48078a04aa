/*
Package config resolves configuration structs through a grundzeug
container hierarchy.

A configuration class is an ordinary struct whose fields carry a config
tag with their path relative to the class:

	type Database struct {
		Host string `config:"host" default:"localhost"`
		Port int    `config:"port" default:"5432" validate:"port"`
		User string `config:"user" validate:"required" description:"login role"`
	}

Class[Database]("app.db") is the contract for that struct under the
prefix app.db, and Class[Database]("app.db").Field("Port") the contract
for one of its fields.  Both are resolved by the Plugin, which must be
installed with Install (or AddPlugin) before providers are registered:

	c := grundzeug.New()
	config.Install(c, nil)
	tree, _ := config.LoadFile("app.yaml")
	_ = config.RegisterProvider(c, tree)
	db, err := c.Resolve(config.Class[Database]("app.db"))

Providers are consulted per path.  A child container can register a
provider that overrides a single key; every other key is still read from
the parent's providers.

Struct-typed fields whose type has config tags are nested classes, placed
under the parent prefix plus the field's path.  Embedded structs
contribute their fields.  Tags:

	config       path relative to the class, dotted
	default      text converted like a provider value when nothing provides the path
	description  help text, used for command-line flags
	validate     rules separated by |, each name or name:param

The built-in rules are required, min, max, oneof, match and port; more
can be added with WithRule.
*/
package config
