package scope

import "github.com/curateproject/siteward/pkg/content"

// refKind discriminates the resource reference union.
type refKind int

const (
	refNone refKind = iota
	refItem
	refMedia
	refItemAdapter
	refItemController
	refMediaAdapter
	refMediaController
	refWrapped
)

// Ref is a closed reference to the resource a permission check targets.
// The host hands the engine whatever it has (a concrete entity, a wrapped
// read model, or just "the item adapter/controller handling this request")
// and resolution maps it to a canonical item identity. The zero Ref is
// unresolvable.
type Ref struct {
	kind  refKind
	item  *content.Item
	media *content.Media
	inner *Ref
}

// ItemRef references a concrete item.
func ItemRef(item *content.Item) Ref {
	if item == nil {
		return Ref{}
	}
	return Ref{kind: refItem, item: item}
}

// MediaRef references a concrete media; the permission decision resolves to
// its parent item, unioned with any direct media-site grants.
func MediaRef(media *content.Media) Ref {
	if media == nil {
		return Ref{}
	}
	return Ref{kind: refMedia, media: media}
}

// WrappedRef references a resource wrapped one level deep, e.g. an API
// representation exposing its underlying entity. Resolution unwraps once
// and retries.
func WrappedRef(inner Ref) Ref {
	i := inner
	return Ref{kind: refWrapped, inner: &i}
}

// ItemAdapterRef identifies the item API adapter by type; the item id comes
// from the request or route.
func ItemAdapterRef() Ref { return Ref{kind: refItemAdapter} }

// ItemControllerRef identifies the admin item controller by type.
func ItemControllerRef() Ref { return Ref{kind: refItemController} }

// MediaAdapterRef identifies the media API adapter by type; the media id
// comes from the request or route.
func MediaAdapterRef() Ref { return Ref{kind: refMediaAdapter} }

// MediaControllerRef identifies the admin media controller by type.
func MediaControllerRef() Ref { return Ref{kind: refMediaController} }

// IsZero reports whether the reference is the unresolvable zero value.
func (r Ref) IsZero() bool { return r.kind == refNone }

// String names the reference shape for logging.
func (r Ref) String() string {
	switch r.kind {
	case refItem:
		return "item"
	case refMedia:
		return "media"
	case refItemAdapter:
		return "item-adapter"
	case refItemController:
		return "item-controller"
	case refMediaAdapter:
		return "media-adapter"
	case refMediaController:
		return "media-controller"
	case refWrapped:
		return "wrapped(" + r.inner.String() + ")"
	default:
		return "unresolvable"
	}
}
