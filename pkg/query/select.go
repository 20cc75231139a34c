package query

import (
	"fmt"
	"strings"
)

// Association describes how one entity reaches another. Direct
// associations render a single JOIN with the On template; many-to-many
// associations set LinkTable and render the link join followed by the
// target join. Templates use {src}, {link} and {dst} for the three aliases.
type Association struct {
	TargetEntity string
	TargetTable  string
	On           string

	LinkTable string
	LinkOn    string
	TargetOn  string
}

// Schema maps "entity.association" paths to their join shapes.
type Schema map[string]Association

// SelectBuilder renders a SELECT statement with association-path joins and
// named parameters. It implements Builder so interceptors can mutate it in
// place before execution.
type SelectBuilder struct {
	schema  Schema
	entity  string
	table   string
	alias   string
	columns []string

	joins       []string
	aliasEntity map[string]string
	predicates  []string
	params      map[string]interface{}
	paramOrder  []string
	err         error
}

// NewSelect creates a select builder rooted at an entity's table.
func NewSelect(schema Schema, entity, table, alias string, columns ...string) *SelectBuilder {
	return &SelectBuilder{
		schema:      schema,
		entity:      entity,
		table:       table,
		alias:       alias,
		columns:     columns,
		aliasEntity: map[string]string{alias: entity},
		params:      make(map[string]interface{}),
	}
}

// RootAlias returns the root entity alias.
func (b *SelectBuilder) RootAlias() string { return b.alias }

// InnerJoin joins along an association path with INNER JOIN semantics.
func (b *SelectBuilder) InnerJoin(path, alias string) Builder {
	return b.join("INNER JOIN", path, alias)
}

// LeftJoin joins along an association path with LEFT JOIN semantics.
func (b *SelectBuilder) LeftJoin(path, alias string) Builder {
	return b.join("LEFT JOIN", path, alias)
}

func (b *SelectBuilder) join(kind, path, alias string) Builder {
	if b.err != nil {
		return b
	}

	srcAlias, assocName, ok := splitPath(path)
	if !ok {
		b.err = fmt.Errorf("malformed association path: %s", path)
		return b
	}

	srcEntity, ok := b.aliasEntity[srcAlias]
	if !ok {
		b.err = fmt.Errorf("unknown alias in association path: %s", path)
		return b
	}

	assoc, ok := b.schema[srcEntity+"."+assocName]
	if !ok {
		b.err = fmt.Errorf("unknown association: %s.%s", srcEntity, assocName)
		return b
	}

	if assoc.LinkTable != "" {
		linkAlias := alias + "_link"
		b.joins = append(b.joins,
			fmt.Sprintf("%s %s %s ON %s", kind, assoc.LinkTable, linkAlias,
				render(assoc.LinkOn, srcAlias, linkAlias, "")),
			fmt.Sprintf("%s %s %s ON %s", kind, assoc.TargetTable, alias,
				render(assoc.TargetOn, srcAlias, linkAlias, alias)),
		)
	} else {
		b.joins = append(b.joins,
			fmt.Sprintf("%s %s %s ON %s", kind, assoc.TargetTable, alias,
				render(assoc.On, srcAlias, "", alias)),
		)
	}

	b.aliasEntity[alias] = assoc.TargetEntity
	return b
}

// AndWhere conjoins a predicate.
func (b *SelectBuilder) AndWhere(predicate string) Builder {
	b.predicates = append(b.predicates, predicate)
	return b
}

// SetParameter binds a named parameter.
func (b *SelectBuilder) SetParameter(name string, value interface{}) Builder {
	if _, seen := b.params[name]; !seen {
		b.paramOrder = append(b.paramOrder, name)
	}
	b.params[name] = value
	return b
}

// Err returns the first composition error, if any.
func (b *SelectBuilder) Err() error { return b.err }

// SQL renders the statement with positional placeholders and the matching
// argument list. Slice parameters expand to IN lists; an empty slice
// renders as (NULL), which matches no row.
func (b *SelectBuilder) SQL() (string, []interface{}, error) {
	if b.err != nil {
		return "", nil, b.err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(b.columns) == 0 {
		sb.WriteString(b.alias + ".*")
	} else {
		sb.WriteString(strings.Join(b.columns, ", "))
	}
	sb.WriteString(" FROM " + b.table + " " + b.alias)
	for _, j := range b.joins {
		sb.WriteString(" " + j)
	}
	if len(b.predicates) > 0 {
		sb.WriteString(" WHERE (" + strings.Join(b.predicates, ") AND (") + ")")
	}

	return expandParams(sb.String(), b.params, b.paramOrder)
}

// splitPath splits "alias.association" into its two parts.
func splitPath(path string) (alias, assoc string, ok bool) {
	idx := strings.IndexByte(path, '.')
	if idx <= 0 || idx == len(path)-1 {
		return "", "", false
	}
	return path[:idx], path[idx+1:], true
}

// render substitutes aliases into an ON-clause template.
func render(template, src, link, dst string) string {
	s := strings.ReplaceAll(template, "{src}", src)
	s = strings.ReplaceAll(s, "{link}", link)
	return strings.ReplaceAll(s, "{dst}", dst)
}

// expandParams replaces :name references with $N placeholders in first-use
// order, expanding slice values into IN lists.
func expandParams(sql string, params map[string]interface{}, order []string) (string, []interface{}, error) {
	var args []interface{}
	next := 1

	for _, name := range order {
		ref := ":" + name

		var placeholder string
		switch v := params[name].(type) {
		case []int64:
			if len(v) == 0 {
				placeholder = "(NULL)"
			} else {
				parts := make([]string, len(v))
				for i, item := range v {
					parts[i] = fmt.Sprintf("$%d", next)
					next++
					args = append(args, item)
				}
				placeholder = "(" + strings.Join(parts, ", ") + ")"
			}
			// IN (:name) is written with explicit parens by callers; strip
			// the surrounding pair so the expansion supplies its own.
			sql = strings.ReplaceAll(sql, "("+ref+")", ref)
		default:
			placeholder = fmt.Sprintf("$%d", next)
			next++
			args = append(args, params[name])
		}

		replaced, found := replaceRef(sql, name, placeholder)
		if !found {
			return "", nil, fmt.Errorf("parameter %s is bound but unused", name)
		}
		sql = replaced
	}

	if idx := strings.IndexByte(sql, ':'); idx >= 0 && idx+1 < len(sql) && isParamStart(sql[idx+1]) {
		return "", nil, fmt.Errorf("unbound parameter near %q", sql[idx:])
	}

	return sql, args, nil
}

// replaceRef substitutes every standalone :name reference with the
// placeholder. A reference followed by another identifier character belongs
// to a longer parameter name sharing the prefix and is left alone.
func replaceRef(sql, name, placeholder string) (string, bool) {
	ref := ":" + name
	var sb strings.Builder
	found := false

	for {
		idx := strings.Index(sql, ref)
		if idx < 0 {
			sb.WriteString(sql)
			return sb.String(), found
		}

		end := idx + len(ref)
		if end < len(sql) && isParamChar(sql[end]) {
			sb.WriteString(sql[:end])
			sql = sql[end:]
			continue
		}

		sb.WriteString(sql[:idx])
		sb.WriteString(placeholder)
		sql = sql[end:]
		found = true
	}
}

func isParamStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isParamChar(c byte) bool {
	return isParamStart(c) || (c >= '0' && c <= '9')
}
