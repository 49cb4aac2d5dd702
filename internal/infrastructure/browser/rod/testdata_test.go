package rod

// Pages served by httptest in the session tests.
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<table id="user_list"><tbody><tr><td class="main_entry">Hello World</td></tr></tbody></table>
</body>
</html>`

	ChallengeHTML = `<!DOCTYPE html>
<html>
<head><title>Just a moment...</title></head>
<body>
	<div id="challenge-running">Checking your browser before accessing the site.</div>
</body>
</html>`

	// SelfClearingChallengeHTML drops its interstitial markers shortly after load.
	SelfClearingChallengeHTML = `<!DOCTYPE html>
<html>
<head><title>Please wait</title></head>
<body>
	<div id="challenge-running">Checking your browser...</div>
	<script>
		setTimeout(function() {
			document.getElementById('challenge-running').remove();
			document.title = 'List';
			document.body.insertAdjacentHTML('beforeend', '<p id="content">Cleared</p>');
		}, 100);
	</script>
</body>
</html>`
)
