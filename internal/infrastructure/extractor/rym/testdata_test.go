package rym

const (
	ListPageHTML = `<!DOCTYPE html>
<html>
<head><title>Best of 1991</title></head>
<body>
<table id="user_list">
	<tbody>
	<tr>
		<td class="number">1</td>
		<td class="main_entry">
			<h2><a class="list_artist" href="/artist/talk-talk">Talk Talk</a></h2>
			<h3><a class="list_album" href="/release/album/talk-talk/laughing-stock/">Laughing
				Stock</a></h3>
		</td>
	</tr>
	<tr>
		<td class="main_entry">
			<h2 class="list_song"><a href="/song/slint/good-morning-captain/">Good Morning, Captain</a></h2>
			<h3 class="list_song_artists"><a href="/artist/slint">Slint</a></h3>
		</td>
	</tr>
	<tr>
		<td class="main_entry">
			<p>Just a comment row, nothing to extract.</p>
		</td>
	</tr>
	<tr>
		<td class="main_entry">
			<h2><a class="list_artist" href="/artist/my-bloody-valentine">My Bloody Valentine</a></h2>
			<h3><a class="list_album" href="https://rateyourmusic.com/release/album/my-bloody-valentine/loveless/">Loveless</a></h3>
		</td>
	</tr>
	<tr><td class="list_sep">separator</td></tr>
	</tbody>
</table>
</body>
</html>`

	EmptyListPageHTML = `<!DOCTYPE html>
<html>
<body>
<table id="user_list"><tbody></tbody></table>
</body>
</html>`

	AlbumPageHTML = `<!DOCTYPE html>
<html>
<body>
	<div class="media_link_container">
		<a class="ui_media_link_btn_bandcamp" href="https://talktalk.bandcamp.com/">Bandcamp</a>
		<a class="spotify_link" href="">broken</a>
		<a class="spotify_link" href="https://open.spotify.com/album/1Ll5B5S1ilKgMhkL1Gr7EC">Spotify</a>
	</div>
</body>
</html>`

	AlbumPageWithoutLinkHTML = `<!DOCTYPE html>
<html>
<body>
	<div class="media_link_container">
		<a class="ui_media_link_btn_youtube" href="https://youtube.com/watch?v=x">YouTube</a>
	</div>
</body>
</html>`
)
