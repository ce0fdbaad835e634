package emitter

import (
	"strconv"
	"strings"

	"github.com/resgen-dev/resgen/internal/resource"
)

const (
	bundleBaseName = "res"
	bundleFileName = bundleBaseName + ".properties"
)

// propertiesRenderer emits a res.properties bundle per package plus a Res
// class whose constants name the bundle keys
type propertiesRenderer struct{}

func (propertiesRenderer) Type() string { return "properties" }

func (propertiesRenderer) Naming() Naming {
	n := javaNaming()
	n.Reserved = []string{"BUNDLE", "BUNDLE_LOCATION"}
	return n
}

func (propertiesRenderer) Dependencies(opts Options) []string { return javaDependencies(opts) }

func (p propertiesRenderer) Render(pkg Package, opts Options) ([]File, error) {
	bundle, err := p.bundle(pkg)
	if err != nil {
		return nil, err
	}
	return []File{
		{Path: pkg.Dir() + "/" + javaFileName, Content: p.class(pkg, opts)},
		{Path: pkg.Dir() + "/" + bundleFileName, Content: bundle},
	}, nil
}

// bundle writes the entries in declaration order without a timestamp so
// identical inputs give identical bytes
func (propertiesRenderer) bundle(pkg Package) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# Generated by resgen. Do not edit.\n")
	for _, res := range pkg.Resources {
		d := res.Declaration
		var value string
		switch d.Kind {
		case resource.KindString, resource.KindFileRef, resource.KindNumber:
			value = d.Text
		case resource.KindBoolean:
			value = strconv.FormatBool(d.Bool)
		default:
			return nil, unsupportedKind("properties", res)
		}
		for _, l := range docLines(d.Doc) {
			b.WriteString("# " + l + "\n")
		}
		b.WriteString(escapeProperty(d.Key, true))
		b.WriteByte('=')
		b.WriteString(escapeProperty(value, false))
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

func (propertiesRenderer) class(pkg Package, opts Options) []byte {
	w := newCodeWriter("    ")
	bundleName := pkg.Name + "." + bundleBaseName

	nullable, notNull, key := "", "", ""
	if opts.InjectDependencies {
		nullable, notNull = "@Nullable ", "@NotNull "
		key = "@PropertyKey(resourceBundle = " + javaQuote(bundleName) + ") "
	}

	w.line(javaHeader)
	w.line("package %s;", pkg.Name)
	w.line("")
	w.line("import java.io.IOException;")
	w.line("import java.io.InputStream;")
	w.line("import java.io.UncheckedIOException;")
	w.line("import java.net.URL;")
	w.line("import java.util.Objects;")
	w.line("import java.util.Properties;")
	if opts.InjectDependencies {
		w.line("import org.jetbrains.annotations.NotNull;")
		w.line("import org.jetbrains.annotations.Nullable;")
		w.line("import org.jetbrains.annotations.PropertyKey;")
	}
	w.line("")
	w.line("public final class %s {", javaClassName)
	w.indent++

	w.line("public static final String BUNDLE = %s;", javaQuote(bundleName))
	w.line("public static final String BUNDLE_LOCATION = %s;", javaQuote(pkg.Dir()+"/"+bundleFileName))
	w.line("")
	for _, res := range pkg.Resources {
		writeJavadoc(w, res.Declaration.Doc)
		w.line("public static final String %s = %s;", res.Identifier, javaQuote(res.Declaration.Key))
	}
	if len(pkg.Resources) > 0 {
		w.line("")
	}

	w.line("private static final Properties registeredResources = new Properties();")
	w.line("")
	w.line("static {")
	w.indent++
	w.line("try (InputStream in = %s.class.getClassLoader().getResourceAsStream(BUNDLE_LOCATION)) {", javaClassName)
	w.indent++
	w.line("if (in != null) {")
	w.indent++
	w.line("registeredResources.load(in);")
	w.indent--
	w.line("}")
	w.indent--
	w.line("} catch (IOException err) {")
	w.indent++
	w.line("throw new UncheckedIOException(err);")
	w.indent--
	w.line("}")
	w.indent--
	w.line("}")
	w.line("")

	w.line("private %s() {", javaClassName)
	w.line("}")
	w.line("")

	w.line("public static %sString getString(%s%sString key) {", notNull, notNull, key)
	w.indent++
	w.line("return Objects.requireNonNull(registeredResources.getProperty(key), key + \" resource not found\");")
	w.indent--
	w.line("}")
	w.line("")
	w.line("public static %sURL getRegisteredResource(%s%sString key) {", nullable, notNull, key)
	w.indent++
	w.line("return getResource(getString(key));")
	w.indent--
	w.line("}")
	w.line("")
	w.line("public static %sInputStream getRegisteredResourceAsStream(%s%sString key) {", nullable, notNull, key)
	w.indent++
	w.line("return getResourceAsStream(getString(key));")
	w.indent--
	w.line("}")
	w.line("")
	writeResourceMethods(w, opts)

	w.indent--
	w.line("}")
	return w.bytes()
}

// escapeProperty writes s in .properties syntax using only ASCII
func escapeProperty(s string, isKey bool) string {
	var b strings.Builder
	for i, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\f':
			b.WriteString(`\f`)
		case '=', ':', '#', '!':
			if isKey || i == 0 {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		case ' ':
			if isKey || i == 0 {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		default:
			writeJavaRune(&b, r)
		}
	}
	return b.String()
}
