// Package query defines the minimal relational-query-builder capability the
// scoping interceptors compose against, together with a concrete SQL
// implementation and a recording fake for tests. Any ORM or query builder
// exposing this shape can host the interceptors.
package query

// Builder is the mutation surface a scoping interceptor needs: the root
// alias of the query, join composition by association path, predicate
// conjunction, and named parameters. Methods return the receiver for
// chaining.
type Builder interface {
	// RootAlias returns the alias of the query's root entity.
	RootAlias() string

	// InnerJoin adds an inner join along an association path, e.g.
	// "it.sites", binding the target to the given alias.
	InnerJoin(path, alias string) Builder

	// LeftJoin adds a left join along an association path.
	LeftJoin(path, alias string) Builder

	// AndWhere conjoins a predicate. Named parameters use the :name form.
	AndWhere(predicate string) Builder

	// SetParameter binds a named parameter. Slice values expand to IN
	// lists when the query is rendered.
	SetParameter(name string, value interface{}) Builder
}

// JoinRecord captures one join call made against a Recorder.
type JoinRecord struct {
	Kind  string // "inner" or "left"
	Path  string
	Alias string
}

// Recorder is a Builder that records every mutation for assertions in
// tests.
type Recorder struct {
	Root       string
	Joins      []JoinRecord
	Predicates []string
	Params     map[string]interface{}
	ParamOrder []string
}

// NewRecorder creates a recording builder rooted at the given alias.
func NewRecorder(rootAlias string) *Recorder {
	return &Recorder{
		Root:   rootAlias,
		Params: make(map[string]interface{}),
	}
}

// RootAlias returns the configured root alias.
func (r *Recorder) RootAlias() string { return r.Root }

// InnerJoin records an inner join.
func (r *Recorder) InnerJoin(path, alias string) Builder {
	r.Joins = append(r.Joins, JoinRecord{Kind: "inner", Path: path, Alias: alias})
	return r
}

// LeftJoin records a left join.
func (r *Recorder) LeftJoin(path, alias string) Builder {
	r.Joins = append(r.Joins, JoinRecord{Kind: "left", Path: path, Alias: alias})
	return r
}

// AndWhere records a predicate.
func (r *Recorder) AndWhere(predicate string) Builder {
	r.Predicates = append(r.Predicates, predicate)
	return r
}

// SetParameter records a parameter binding.
func (r *Recorder) SetParameter(name string, value interface{}) Builder {
	if _, seen := r.Params[name]; !seen {
		r.ParamOrder = append(r.ParamOrder, name)
	}
	r.Params[name] = value
	return r
}
