package cache

import "strings"

// scopedKeyer puts every key under a namespace so several deployments can
// share one Redis or Mongo backend.
type scopedKeyer struct {
	Keyer
	ns string
}

// NewScopedKeyer prefixes the keys of inner with namespace. A trailing ':'
// is added when missing; a nil inner means the default layout.
//
//	keyer := NewScopedKeyer(nil, "starchart:v1")
func NewScopedKeyer(inner Keyer, namespace string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if namespace == "" {
		return inner
	}
	if !strings.HasSuffix(namespace, ":") {
		namespace += ":"
	}
	return scopedKeyer{Keyer: inner, ns: namespace}
}

func (k scopedKeyer) HTTPKey(namespace, key string) string {
	return k.ns + k.Keyer.HTTPKey(namespace, key)
}

func (k scopedKeyer) CatalogKey(source string, opts CatalogKeyOpts) string {
	return k.ns + k.Keyer.CatalogKey(source, opts)
}

func (k scopedKeyer) SceneKey(opts SceneKeyOpts) string {
	return k.ns + k.Keyer.SceneKey(opts)
}

func (k scopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.ns + k.Keyer.ArtifactKey(sceneHash, opts)
}

// Keyer returns the key layout for cfg, scoped by its Namespace.
func (cfg Config) Keyer() Keyer {
	return NewScopedKeyer(nil, cfg.Namespace)
}
