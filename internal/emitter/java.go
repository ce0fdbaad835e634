package emitter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/resolver"
	"github.com/resgen-dev/resgen/internal/resource"
)

const (
	javaHeader    = "// Generated by resgen. Do not edit."
	javaClassName = "Res"
	javaFileName  = javaClassName + ".java"

	// javaFilesTable indexes the FILE_REF constants of a Res class
	javaFilesTable = "FILES"
)

var javaKeywords = []string{
	"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
	"class", "const", "continue", "default", "do", "double", "else", "enum",
	"extends", "final", "finally", "float", "for", "goto", "if", "implements",
	"import", "instanceof", "int", "interface", "long", "native", "new",
	"package", "private", "protected", "public", "return", "short", "static",
	"strictfp", "super", "switch", "synchronized", "this", "throw", "throws",
	"transient", "try", "void", "volatile", "while", "true", "false", "null",
	"_",
}

func javaNaming() Naming {
	return Naming{
		Casing:   resolver.CasingUpperSnake,
		Keywords: javaKeywords,
		Reserved: []string{javaFilesTable},
	}
}

func javaDependencies(opts Options) []string {
	if !opts.InjectDependencies {
		return nil
	}
	return []string{jetbrainsAnnotations(opts.AnnotationsVersion)}
}

// javaRenderer emits one Res.java per package holding typed constants
type javaRenderer struct{}

func (javaRenderer) Type() string { return "java" }

func (javaRenderer) Naming() Naming { return javaNaming() }

func (javaRenderer) Dependencies(opts Options) []string { return javaDependencies(opts) }

func (j javaRenderer) Render(pkg Package, opts Options) ([]File, error) {
	w := newCodeWriter("    ")

	w.line(javaHeader)
	w.line("package %s;", pkg.Name)
	w.line("")
	w.line("import java.io.InputStream;")
	w.line("import java.net.URL;")
	w.line("import java.util.Objects;")
	if opts.InjectDependencies {
		w.line("import org.jetbrains.annotations.NotNull;")
		w.line("import org.jetbrains.annotations.Nullable;")
	}
	w.line("")
	w.line("public final class %s {", javaClassName)
	w.indent++

	var files []string
	for _, res := range pkg.Resources {
		typ, value, err := javaConstant(res)
		if err != nil {
			return nil, err
		}
		writeJavadoc(w, res.Declaration.Doc)
		w.line("public static final %s %s = %s;", typ, res.Identifier, value)
		if res.Declaration.Kind == resource.KindFileRef {
			files = append(files, res.Identifier)
		}
	}
	if len(pkg.Resources) > 0 {
		w.line("")
	}
	writeFilesTable(w, files)

	w.line("private %s() {", javaClassName)
	w.line("}")
	w.line("")
	writeResourceMethods(w, opts)
	w.line("")
	writeRegisteredMethods(w, opts)

	w.indent--
	w.line("}")

	return []File{{Path: pkg.Dir() + "/" + javaFileName, Content: w.bytes()}}, nil
}

// writeResourceMethods adds the classpath lookup helpers shared by both Java styles
func writeResourceMethods(w *codeWriter, opts Options) {
	nullable, notNull := "", ""
	if opts.InjectDependencies {
		nullable, notNull = "@Nullable ", "@NotNull "
	}

	w.line("public static %sURL getResource(%sString location) {", nullable, notNull)
	w.indent++
	w.line("return %s.class.getClassLoader().getResource(location);", javaClassName)
	w.indent--
	w.line("}")
	w.line("")
	w.line("public static %sInputStream getResourceAsStream(%sString location) {", nullable, notNull)
	w.indent++
	w.line("return %s.class.getClassLoader().getResourceAsStream(location);", javaClassName)
	w.indent--
	w.line("}")
}

// writeFilesTable declares FILES, the file references in declaration order
func writeFilesTable(w *codeWriter, files []string) {
	if len(files) == 0 {
		w.line("private static final String[] %s = {};", javaFilesTable)
		w.line("")
		return
	}
	w.line("private static final String[] %s = {", javaFilesTable)
	w.indent++
	for _, f := range files {
		w.line("%s,", f)
	}
	w.indent--
	w.line("};")
	w.line("")
}

// writeRegisteredMethods adds lookups by position in FILES. An index outside
// the table throws IndexOutOfBoundsException and a file missing from the
// classpath fails requireNonNull, so neither method returns null.
func writeRegisteredMethods(w *codeWriter, opts Options) {
	notNull := ""
	if opts.InjectDependencies {
		notNull = "@NotNull "
	}

	w.line("private static %sString registeredFile(int index) {", notNull)
	w.indent++
	w.line("if (index < 0 || index >= %s.length) {", javaFilesTable)
	w.indent++
	w.line("throw new IndexOutOfBoundsException(\"Resource \" + index + \" not found\");")
	w.indent--
	w.line("}")
	w.line("return %s[index];", javaFilesTable)
	w.indent--
	w.line("}")
	w.line("")
	w.line("public static %sURL getRegisteredResource(int index) {", notNull)
	w.indent++
	w.line("String location = registeredFile(index);")
	w.line("return Objects.requireNonNull(getResource(location), \"Resource \" + location + \" not found\");")
	w.indent--
	w.line("}")
	w.line("")
	w.line("public static %sInputStream getRegisteredResourceAsStream(int index) {", notNull)
	w.indent++
	w.line("String location = registeredFile(index);")
	w.line("return Objects.requireNonNull(getResourceAsStream(location), \"Resource \" + location + \" not found\");")
	w.indent--
	w.line("}")
}

func writeJavadoc(w *codeWriter, doc string) {
	lines := docLines(doc)
	switch len(lines) {
	case 0:
	case 1:
		w.line("/** %s */", javadocEscape(lines[0]))
	default:
		w.line("/**")
		for _, l := range lines {
			w.line(" * %s", javadocEscape(l))
		}
		w.line(" */")
	}
}

func javadocEscape(s string) string {
	return strings.ReplaceAll(s, "*/", "*&#47;")
}

func javaConstant(res resource.Resolved) (string, string, error) {
	d := res.Declaration
	switch d.Kind {
	case resource.KindString, resource.KindFileRef:
		return "String", javaQuote(d.Text), nil
	case resource.KindNumber:
		if strings.ContainsAny(d.Text, ".eE") {
			if _, err := strconv.ParseFloat(d.Text, 64); err != nil {
				return "", "", errors.NewRenderFailed(d.Location, d.Key, strconv.Quote(d.Text)+" is not a number")
			}
			return "double", d.Text, nil
		}
		if _, err := strconv.ParseInt(d.Text, 10, 64); err != nil {
			return "", "", errors.NewRenderFailed(d.Location, d.Key, strconv.Quote(d.Text)+" does not fit a long")
		}
		return "long", d.Text + "L", nil
	case resource.KindBoolean:
		return "boolean", strconv.FormatBool(d.Bool), nil
	default:
		return "", "", unsupportedKind("java", res)
	}
}

// javaQuote returns s as a Java string literal. Everything outside
// printable ASCII is written as \uXXXX so the file is encoding independent.
func javaQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			writeJavaRune(&b, r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func writeJavaRune(b *strings.Builder, r rune) {
	switch {
	case r >= 0x20 && r < 0x7f:
		b.WriteRune(r)
	case r > 0xffff:
		r1, r2 := utf16.EncodeRune(r)
		fmt.Fprintf(b, `\u%04x\u%04x`, r1, r2)
	default:
		fmt.Fprintf(b, `\u%04x`, r)
	}
}
