package gen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attus74/devutil"
	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/registry"
)

func TestPluginKit(t *testing.T) {
	fs := filestore.Memory()
	require.NoError(t, fs.WriteText("modules/custom/media_kit/media_kit.info.yml", "name: Media Kit\n"))
	require.NoError(t, fs.WriteText("modules/custom/media_kit/media_kit.services.yml", `services:
  media_kit.uploader:
    class: Drupal\media_kit\Uploader
`))
	g, err := NewPluginKitGenerator(fs, registry.NewModules(fs), WithAuthor("Jane Doe"), WithClock(today))
	require.NoError(t, err)

	res, err := g.Generate(context.Background(), PluginKitSpec{Name: "Image Source", Module: "media_kit"})
	require.NoError(t, err)
	root := "modules/custom/media_kit"
	assert.Equal(t, []string{
		root + "/media_kit.services.yml",
		root + "/src/ImageSourceBase.php",
		root + "/src/ImageSourceInterface.php",
		root + "/src/ImageSourceManager.php",
		root + "/src/Annotation/ImageSource.php",
	}, res.Files)

	assert.Equal(t, `services:
  media_kit.uploader:
    class: Drupal\media_kit\Uploader
  plugin.manager.image_source:
    class: Drupal\media_kit\ImageSourceManager
    parent: default_plugin_manager
`, read(t, fs, root+"/media_kit.services.yml"))

	assert.Equal(t, `<?php

namespace Drupal\media_kit;

/**
 * Interface for Image Source plugins.
 *
 * @author Jane Doe
 * @date 19.10.2026
 */
interface ImageSourceInterface {
}
`, read(t, fs, root+"/src/ImageSourceInterface.php"))

	base := read(t, fs, root+"/src/ImageSourceBase.php")
	assert.Contains(t, base, "abstract class ImageSourceBase extends PluginBase implements ImageSourceInterface {\n")

	manager := read(t, fs, root+"/src/ImageSourceManager.php")
	assert.Contains(t, manager, "  public function __construct(\\Traversable $namespaces, CacheBackendInterface $cache_backend, ModuleHandlerInterface $module_handler) {\n")
	assert.Contains(t, manager, `    parent::__construct('Plugin/ImageSource', $namespaces, $module_handler, 'Drupal\media_kit\ImageSourceInterface', 'Drupal\media_kit\Annotation\ImageSource');`)
	assert.Contains(t, manager, "    $this->alterInfo('image_source_info');\n")
	assert.Contains(t, manager, "    $this->setCacheBackend($cache_backend, 'image_source_plugins');\n")

	annotation := read(t, fs, root+"/src/Annotation/ImageSource.php")
	assert.Contains(t, annotation, " * @date 19.10.2026\n *\n * @Annotation\n */\nclass ImageSource extends Plugin {\n")
	assert.Contains(t, annotation, "  public $id;\n")
}

func TestPluginKitCreatesModule(t *testing.T) {
	fs := filestore.Memory()
	g, err := NewPluginKitGenerator(fs, registry.NewModules(fs))
	require.NoError(t, err)

	res, err := g.Generate(context.Background(), PluginKitSpec{Name: "image_source"})
	require.NoError(t, err)
	assert.False(t, res.Module.Exists)
	assert.Equal(t, "modules/custom/image_source", res.Module.Root)
	assert.Equal(t, "name: ImageSource\ndescription: Plugin ImageSource\ntype: module\ncore_version_requirement: ^9.1 || ^10\n",
		read(t, fs, "modules/custom/image_source/image_source.info.yml"))
}

func TestPluginKitInvalid(t *testing.T) {
	spy := &spyStore{FileStore: filestore.Memory()}
	g, err := NewPluginKitGenerator(spy, nil)
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), PluginKitSpec{Name: "9 lives"})
	assert.True(t, devutil.IsSpecError(err))
	assert.Zero(t, spy.calls)
}
